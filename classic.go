/*
Copyright © 2026 the mikeraw authors.
This file is part of mikeraw.

mikeraw is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mikeraw is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mikeraw.  If not, see <http://www.gnu.org/licenses/>.
*/

package mikeraw

import (
	"fmt"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spf13/afero"
)

// classicDataset reads NetCDF classic files.
type classicDataset struct {
	path string
	f    afero.File
	ff   *cdf.File

	// numRecs is the number of records along the record dimension.
	numRecs int
}

func openClassic(fs afero.Fs, path string) (*classicDataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, &IOError{Path: path, Err: fmt.Errorf("reading NetCDF header: %w", err)}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &IOError{Path: path, Err: err}
	}
	return &classicDataset{
		path:    path,
		f:       f,
		ff:      ff,
		numRecs: int(ff.Header.NumRecs(fi.Size())),
	}, nil
}

func (d *classicDataset) Dimension(name string) (int, error) {
	names := d.ff.Header.Dimensions("")
	lengths := d.ff.Header.Lengths("")
	for i, n := range names {
		if n != name {
			continue
		}
		if lengths[i] == 0 {
			return d.numRecs, nil
		}
		return lengths[i], nil
	}
	return 0, &MissingDimensionError{Name: name}
}

func (d *classicDataset) Variables() []string { return d.ff.Header.Variables() }

func (d *classicDataset) Dimensions(v string) ([]string, error) {
	dims := d.ff.Header.Dimensions(v)
	if dims == nil {
		return nil, &MissingVariableError{Name: v}
	}
	return dims, nil
}

func (d *classicDataset) Attribute(v, a string) (interface{}, bool) {
	val := d.ff.Header.GetAttribute(v, a)
	return val, val != nil
}

// lengths returns the dimension lengths of v with the record
// dimension resolved to the number of records.
func (d *classicDataset) lengths(v string) ([]int, error) {
	if d.ff.Header.Dimensions(v) == nil {
		return nil, &MissingVariableError{Name: v}
	}
	l := append([]int(nil), d.ff.Header.Lengths(v)...)
	if d.ff.Header.IsRecordVariable(v) {
		l[0] = d.numRecs
	}
	return l, nil
}

func (d *classicDataset) Values(v string) ([]float64, error) {
	dims, err := d.lengths(v)
	if err != nil {
		return nil, err
	}
	begin, end := make([]int, len(dims)), make([]int, len(dims))
	n := 1
	for i, l := range dims {
		n *= l
		end[i] = l - 1
	}
	if n == 0 {
		return []float64{}, nil
	}
	return d.read(v, begin, end, n)
}

func (d *classicDataset) Slab(v string, t int) (*sparse.DenseArray, error) {
	dims, err := checkSlabIndex(d, v, t)
	if err != nil {
		return nil, err
	}
	begin, end := make([]int, len(dims)), make([]int, len(dims))
	begin[0], end[0] = t, t
	n := 1
	for i := 1; i < len(dims); i++ {
		n *= dims[i]
		end[i] = dims[i] - 1
	}
	out := sparse.ZerosDense(dims[1:]...)
	if n == 0 {
		return out, nil
	}
	vals, err := d.read(v, begin, end, n)
	if err != nil {
		return nil, err
	}
	copy(out.Elements, vals)
	return out, nil
}

// read reads n values of variable v between the corners begin and end,
// inclusive, and unpacks them.
func (d *classicDataset) read(v string, begin, end []int, n int) ([]float64, error) {
	r := d.ff.Reader(v, begin, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, &IOError{Path: d.path, Err: fmt.Errorf("reading variable %s: %w", v, err)}
	}
	vals, err := toFloat64s(buf)
	if err != nil {
		return nil, fmt.Errorf("mikeraw: variable %s: %w", v, err)
	}
	newUnpacker(d, v).unpack(vals)
	return vals, nil
}

func (d *classicDataset) Close() error {
	if err := d.f.Close(); err != nil {
		return &IOError{Path: d.path, Err: err}
	}
	return nil
}
