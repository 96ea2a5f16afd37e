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

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
	"github.com/spf13/afero"
)

// netcdf4Dataset reads HDF5-based NetCDF-4 files, and classic files,
// with the pure-Go go-native-netcdf library.
type netcdf4Dataset struct {
	path string
	g    api.Group

	vars    map[string]bool
	getters map[string]api.VarGetter
}

func openNetCDF4(fs afero.Fs, path string) (*netcdf4Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	// On success the group owns f and closes it in Close.
	g, err := netcdf.New(f)
	if err != nil {
		f.Close()
		return nil, &IOError{Path: path, Err: fmt.Errorf("opening NetCDF-4 file: %w", err)}
	}
	d := &netcdf4Dataset{
		path:    path,
		g:       g,
		vars:    make(map[string]bool),
		getters: make(map[string]api.VarGetter),
	}
	for _, v := range g.ListVariables() {
		d.vars[v] = true
	}
	return d, nil
}

func (d *netcdf4Dataset) getter(v string) (api.VarGetter, error) {
	if vg, ok := d.getters[v]; ok {
		return vg, nil
	}
	if !d.vars[v] {
		return nil, &MissingVariableError{Name: v}
	}
	vg, err := d.g.GetVarGetter(v)
	if err != nil {
		return nil, &IOError{Path: d.path, Err: fmt.Errorf("reading variable %s: %w", v, err)}
	}
	d.getters[v] = vg
	return vg, nil
}

func (d *netcdf4Dataset) Dimension(name string) (int, error) {
	l, ok := d.g.GetDimension(name)
	if !ok {
		return 0, &MissingDimensionError{Name: name}
	}
	return int(l), nil
}

func (d *netcdf4Dataset) Variables() []string { return d.g.ListVariables() }

func (d *netcdf4Dataset) Dimensions(v string) ([]string, error) {
	vg, err := d.getter(v)
	if err != nil {
		return nil, err
	}
	return vg.Dimensions(), nil
}

func (d *netcdf4Dataset) Attribute(v, a string) (interface{}, bool) {
	vg, err := d.getter(v)
	if err != nil {
		return nil, false
	}
	attrs := vg.Attributes()
	if attrs == nil {
		return nil, false
	}
	return attrs.Get(a)
}

func (d *netcdf4Dataset) Values(v string) ([]float64, error) {
	vg, err := d.getter(v)
	if err != nil {
		return nil, err
	}
	raw, err := vg.Values()
	if err != nil {
		return nil, &IOError{Path: d.path, Err: fmt.Errorf("reading variable %s: %w", v, err)}
	}
	vals, err := toFloat64s(raw)
	if err != nil {
		return nil, fmt.Errorf("mikeraw: variable %s: %w", v, err)
	}
	newUnpacker(d, v).unpack(vals)
	return vals, nil
}

func (d *netcdf4Dataset) Slab(v string, t int) (*sparse.DenseArray, error) {
	dims, err := checkSlabIndex(d, v, t)
	if err != nil {
		return nil, err
	}
	vg, err := d.getter(v)
	if err != nil {
		return nil, err
	}
	raw, err := vg.GetSlice(int64(t), int64(t)+1)
	if err != nil {
		return nil, &IOError{Path: d.path, Err: fmt.Errorf("reading variable %s at index %d: %w", v, t, err)}
	}
	vals, err := toFloat64s(raw)
	if err != nil {
		return nil, fmt.Errorf("mikeraw: variable %s: %w", v, err)
	}
	out := sparse.ZerosDense(dims[1:]...)
	if len(vals) != len(out.Elements) {
		return nil, fmt.Errorf("mikeraw: variable %s: read %d values at index %d but expected %d",
			v, len(vals), t, len(out.Elements))
	}
	newUnpacker(d, v).unpack(vals)
	copy(out.Elements, vals)
	return out, nil
}

func (d *netcdf4Dataset) Close() error {
	d.g.Close()
	return nil
}
