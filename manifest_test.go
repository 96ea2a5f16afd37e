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
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestReadManifest(t *testing.T) {
	d := newTestDataset()
	d.items = append(d.items, testItem{
		name: "swh", longName: "Significant height of combined wind waves and swell", units: "m",
		value: gridValue,
	})
	ds := openTestDataset(t, d, ClassicBackend)
	defer ds.Close()
	cfg := DefaultConfig()
	m, err := ReadManifest(ds, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := Manifest{
		{Name: "u10", LongName: "10 metre U wind component", Units: "m s**-1"},
		{Name: "v10", LongName: "10 metre V wind component", Units: "m s**-1"},
		{Name: "swh", LongName: "Significant height of combined wind waves and swell", Units: "m"},
	}
	if !reflect.DeepEqual(m, want) {
		t.Error(pretty.Diff(m, want))
	}

	cfg.ExcludeVariables = []string{"v10"}
	m, err = ReadManifest(ds, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, Manifest{want[0], want[2]}) {
		t.Error(pretty.Diff(m, Manifest{want[0], want[2]}))
	}
}

func TestReadManifestMissingAttribute(t *testing.T) {
	d := newTestDataset()
	d.omit = []string{"v10:long_name"}
	ds := openTestDataset(t, d, ClassicBackend)
	defer ds.Close()
	cfg := DefaultConfig()
	_, err := ReadManifest(ds, &cfg)
	var e *MissingAttributeError
	if !errors.As(err, &e) {
		t.Fatalf("want MissingAttributeError, have %v", err)
	}
	if e.Variable != "v10" || e.Attribute != "long_name" {
		t.Errorf("%+v", e)
	}
}

func TestReadManifestWrongDimensions(t *testing.T) {
	d := newTestDataset()
	d.items = append(d.items, testItem{
		name: "lsm", longName: "Land-sea mask", units: "(0 - 1)",
		value: func(_, lat, lon int) float32 { return 0 },
		dims:  []string{"time", "longitude", "latitude"},
	})
	ds := openTestDataset(t, d, ClassicBackend)
	defer ds.Close()
	cfg := DefaultConfig()
	_, err := ReadManifest(ds, &cfg)
	if err == nil || !strings.Contains(err.Error(), `"lsm"`) {
		t.Errorf("have %v", err)
	}
	cfg.ExcludeVariables = []string{"lsm"}
	if _, err = ReadManifest(ds, &cfg); err != nil {
		t.Error(err)
	}
}
