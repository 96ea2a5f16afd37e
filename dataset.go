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
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/ctessum/sparse"
	"github.com/spf13/afero"
)

// Dataset is an opened gridded dataset with named dimensions
// and variables.
type Dataset interface {
	// Dimension returns the length of the named dimension. For a record
	// (unlimited) dimension it is the number of records in the file.
	Dimension(name string) (int, error)

	// Variables returns the names of all variables in the order they are
	// declared in the file.
	Variables() []string

	// Dimensions returns the names of the dimensions of variable v.
	Dimensions(v string) ([]string, error)

	// Attribute returns the raw value of attribute a of variable v.
	Attribute(v, a string) (interface{}, bool)

	// Values returns every value of variable v, unpacked, with missing
	// values set to NaN.
	Values(v string) ([]float64, error)

	// Slab returns the two trailing dimensions of variable v at index t
	// of its first dimension, unpacked, with missing values set to NaN.
	Slab(v string, t int) (*sparse.DenseArray, error)

	Close() error
}

var (
	cdfMagic  = []byte("CDF")
	hdf5Magic = []byte("\x89HDF")
)

// OpenDataset opens the NetCDF file at path with the requested backend.
// AutoBackend chooses between the classic and NetCDF-4 readers
// by looking at the first bytes of the file.
func OpenDataset(fs afero.Fs, path string, backend Backend) (Dataset, error) {
	if backend == AutoBackend {
		var err error
		backend, err = sniffBackend(fs, path)
		if err != nil {
			return nil, err
		}
	}
	switch backend {
	case ClassicBackend:
		return openClassic(fs, path)
	case NetCDF4Backend:
		return openNetCDF4(fs, path)
	default:
		return nil, fmt.Errorf("mikeraw: unknown dataset backend '%s'", backend)
	}
}

// sniffBackend returns the backend able to read the file at path.
func sniffBackend(fs afero.Fs, path string) (Backend, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	defer f.Close()
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return "", &IOError{Path: path, Err: fmt.Errorf("reading file signature: %w", err)}
	}
	switch {
	case bytes.HasPrefix(magic, cdfMagic) && (magic[3] == 1 || magic[3] == 2):
		return ClassicBackend, nil
	case bytes.Equal(magic, hdf5Magic):
		return NetCDF4Backend, nil
	}
	return "", &IOError{Path: path, Err: fmt.Errorf("not a NetCDF classic or NetCDF-4 file")}
}

// StringAttribute returns text attribute a of variable v.
func StringAttribute(ds Dataset, v, a string) (string, error) {
	val, ok := ds.Attribute(v, a)
	if !ok {
		return "", &MissingAttributeError{Variable: v, Attribute: a}
	}
	switch s := val.(type) {
	case string:
		return s, nil
	case []byte:
		return string(bytes.TrimRight(s, "\x00")), nil
	}
	return "", &MissingAttributeError{Variable: v, Attribute: a}
}

// numericAttribute returns numeric attribute a of variable v.
func numericAttribute(ds Dataset, v, a string) ([]float64, bool) {
	val, ok := ds.Attribute(v, a)
	if !ok {
		return nil, false
	}
	if _, isString := val.(string); isString {
		return nil, false
	}
	f, err := toFloat64s(val)
	if err != nil || len(f) == 0 {
		return nil, false
	}
	return f, true
}

// unpacker converts stored values to physical values following the
// CF packing and masking conventions.
type unpacker struct {
	scale, offset       float64
	hasScale, hasOffset bool
	missing             []float64
}

func newUnpacker(ds Dataset, v string) unpacker {
	var u unpacker
	if s, ok := numericAttribute(ds, v, "scale_factor"); ok {
		u.scale, u.hasScale = s[0], true
	}
	if o, ok := numericAttribute(ds, v, "add_offset"); ok {
		u.offset, u.hasOffset = o[0], true
	}
	for _, a := range []string{"_FillValue", "missing_value"} {
		if m, ok := numericAttribute(ds, v, a); ok {
			u.missing = append(u.missing, m...)
		}
	}
	return u
}

func (u unpacker) unpack(vals []float64) {
	for i, raw := range vals {
		if u.isMissing(raw) {
			vals[i] = math.NaN()
			continue
		}
		// Unpacked values are left untouched so that -0 keeps its sign.
		if u.hasScale {
			raw *= u.scale
		}
		if u.hasOffset {
			raw += u.offset
		}
		vals[i] = raw
	}
}

func (u unpacker) isMissing(raw float64) bool {
	if math.IsNaN(raw) {
		return true
	}
	for _, m := range u.missing {
		if raw == m {
			return true
		}
	}
	return false
}

// toFloat64s flattens a numeric value, or an arbitrarily nested slice
// of numeric values, into a []float64 in row-major order.
func toFloat64s(v interface{}) ([]float64, error) {
	var o []float64
	if err := appendFloat64s(&o, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return o, nil
}

func appendFloat64s(o *[]float64, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := appendFloat64s(o, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*o = append(*o, float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*o = append(*o, float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		*o = append(*o, v.Float())
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return fmt.Errorf("mikeraw: nil value in numeric data")
		}
		return appendFloat64s(o, v.Elem())
	default:
		return fmt.Errorf("mikeraw: %s is not numeric data", v.Type())
	}
	return nil
}

// checkSlabIndex returns an error if t is not a valid index into the
// first dimension of variable v.
func checkSlabIndex(ds Dataset, v string, t int) ([]int, error) {
	dims, err := ds.Dimensions(v)
	if err != nil {
		return nil, err
	}
	if len(dims) < 2 {
		return nil, fmt.Errorf("mikeraw: variable %q has %d dimensions but at least 2 are needed to read a slab", v, len(dims))
	}
	lengths := make([]int, len(dims))
	for i, d := range dims {
		if lengths[i], err = ds.Dimension(d); err != nil {
			return nil, err
		}
	}
	if t < 0 || t >= lengths[0] {
		return nil, &IndexOutOfRangeError{Variable: v, Dimension: dims[0], Index: t, Length: lengths[0]}
	}
	return lengths, nil
}
