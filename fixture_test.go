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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	nccdf "github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/ctessum/cdf"
	"github.com/spf13/afero"
)

// testItem is a gridded variable in a test dataset.
type testItem struct {
	name, longName, units string

	// value returns the stored value at the given indices.
	value func(t, lat, lon int) float32

	// attrs holds extra attributes such as scale_factor.
	attrs map[string]interface{}

	// dims overrides the default (time, latitude, longitude) dimensions.
	dims []string
}

// testDataset describes a small ERA5-like dataset.
type testDataset struct {
	nt, nlat, nlon int

	// record makes time the record (unlimited) dimension.
	record bool

	timeUnits, calendar string
	time0, dt           int32

	lat0, dlat, lon0, dlon float32

	items []testItem

	// omit lists attributes left out of the file, as "variable:attribute".
	omit []string
}

// gridValue encodes the indices of a cell so that it can be recovered
// from the output.
func gridValue(t, lat, lon int) float32 { return float32(t*100 + lat*10 + lon) }

func newTestDataset() *testDataset {
	return &testDataset{
		nt: 3, nlat: 4, nlon: 5,
		timeUnits: "hours since 1900-01-01 00:00:00.0",
		calendar:  "gregorian",
		time0:     1051896, // 2020-01-01 00:00
		dt:        6,
		lat0:      27, dlat: -0.25,
		lon0: 50, dlon: 0.25,
		items: []testItem{
			{name: "u10", longName: "10 metre U wind component", units: "m s**-1", value: gridValue},
			{name: "v10", longName: "10 metre V wind component", units: "m s**-1",
				value: func(t, lat, lon int) float32 { return -gridValue(t, lat, lon) }},
		},
	}
}

func (d *testDataset) omitted(v, a string) bool {
	for _, o := range d.omit {
		if o == v+":"+a {
			return true
		}
	}
	return false
}

func (d *testDataset) itemDims(it testItem) []string {
	if it.dims != nil {
		return it.dims
	}
	return []string{"time", "latitude", "longitude"}
}

func (d *testDataset) lats() []float32 {
	o := make([]float32, d.nlat)
	for i := range o {
		o[i] = d.lat0 + float32(i)*d.dlat
	}
	return o
}

func (d *testDataset) lons() []float32 {
	o := make([]float32, d.nlon)
	for i := range o {
		o[i] = d.lon0 + float32(i)*d.dlon
	}
	return o
}

func (d *testDataset) times() []int32 {
	o := make([]int32, d.nt)
	for i := range o {
		o[i] = d.time0 + int32(i)*d.dt
	}
	return o
}

// itemValues returns the values of it in row-major order.
func (d *testDataset) itemValues(it testItem) []float32 {
	o := make([]float32, 0, d.nt*d.nlat*d.nlon)
	for t := 0; t < d.nt; t++ {
		for lat := 0; lat < d.nlat; lat++ {
			for lon := 0; lon < d.nlon; lon++ {
				o = append(o, it.value(t, lat, lon))
			}
		}
	}
	return o
}

func (d *testDataset) attrs(v string, a map[string]interface{}) map[string]interface{} {
	o := make(map[string]interface{})
	for k, val := range a {
		if !d.omitted(v, k) {
			o[k] = val
		}
	}
	return o
}

func (d *testDataset) timeAttrs() map[string]interface{} {
	return d.attrs("time", map[string]interface{}{
		"units":     d.timeUnits,
		"long_name": "time",
		"calendar":  d.calendar,
	})
}

func (d *testDataset) itemAttrs(it testItem) map[string]interface{} {
	a := map[string]interface{}{"long_name": it.longName, "units": it.units}
	for k, v := range it.attrs {
		a[k] = v
	}
	return d.attrs(it.name, a)
}

// writeClassic writes d as a NetCDF classic file to path in fs.
func (d *testDataset) writeClassic(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	tlen := d.nt
	if d.record {
		tlen = 0
	}
	h := cdf.NewHeader([]string{"longitude", "latitude", "time"}, []int{d.nlon, d.nlat, tlen})
	h.AddAttribute("", "Conventions", "CF-1.6")

	h.AddVariable("longitude", []string{"longitude"}, []float32{0})
	h.AddAttribute("longitude", "units", "degrees_east")
	h.AddAttribute("longitude", "long_name", "longitude")
	h.AddVariable("latitude", []string{"latitude"}, []float32{0})
	h.AddAttribute("latitude", "units", "degrees_north")
	h.AddAttribute("latitude", "long_name", "latitude")
	h.AddVariable("time", []string{"time"}, []int32{0})
	for k, v := range d.timeAttrs() {
		h.AddAttribute("time", k, v)
	}
	for _, it := range d.items {
		h.AddVariable(it.name, d.itemDims(it), []float32{0})
		for k, v := range d.itemAttrs(it) {
			h.AddAttribute(it.name, k, v)
		}
	}
	h.Define()

	// The classic writer extends files with WriteAt, so it writes to the
	// operating system file system and the result is copied into fs.
	tmp := filepath.Join(t.TempDir(), "classic.nc")
	w, err := os.Create(tmp)
	if err != nil {
		t.Fatal(err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	write := func(v string, data interface{}) {
		// The writer returns io.EOF once it reaches the end of a
		// fixed-size variable.
		if _, err := f.Writer(v, nil, nil).Write(data); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v, err)
		}
	}
	write("longitude", d.lons())
	write("latitude", d.lats())
	write("time", d.times())
	for _, it := range d.items {
		write(it.name, d.itemValues(it))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := afero.ReadFile(afero.NewOsFs(), tmp)
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path, b, 0644); err != nil {
		t.Fatal(err)
	}
}

// writeNative writes d with the pure-Go NetCDF writer to a file in a
// temporary directory and returns its path.
func (d *testDataset) writeNative(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "native.nc")
	w, err := nccdf.OpenWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	add := func(name string, values interface{}, dims []string, attrs map[string]interface{}) {
		keys := make([]string, 0, len(attrs))
		for _, k := range []string{"long_name", "units", "calendar", "scale_factor", "add_offset", "_FillValue", "missing_value"} {
			if _, ok := attrs[k]; ok {
				keys = append(keys, k)
			}
		}
		m, err := util.NewOrderedMap(keys, attrs)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.AddVar(name, api.Variable{Values: values, Dimensions: dims, Attributes: m}); err != nil {
			t.Fatalf("adding %s: %v", name, err)
		}
	}
	add("longitude", d.lons(), []string{"longitude"},
		map[string]interface{}{"units": "degrees_east", "long_name": "longitude"})
	add("latitude", d.lats(), []string{"latitude"},
		map[string]interface{}{"units": "degrees_north", "long_name": "latitude"})
	add("time", d.times(), []string{"time"}, d.timeAttrs())
	for _, it := range d.items {
		vals := d.itemValues(it)
		nested := make([][][]float32, d.nt)
		for ti := range nested {
			nested[ti] = make([][]float32, d.nlat)
			for lat := range nested[ti] {
				i := (ti*d.nlat + lat) * d.nlon
				nested[ti][lat] = vals[i : i+d.nlon]
			}
		}
		add(it.name, nested, d.itemDims(it), d.itemAttrs(it))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
