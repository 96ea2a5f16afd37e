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
	"reflect"
)

// Item is one dynamic variable written to the output.
type Item struct {
	Name, LongName, Units string
}

// Manifest lists the items of a dataset in the order they are declared
// in the file. The order is never changed: downstream item numbers
// depend on it.
type Manifest []Item

// ReadManifest returns every variable of ds that is not excluded by cfg.
// Each item must carry long_name and units attributes and have exactly
// the dimensions (time, latitude, longitude).
func ReadManifest(ds Dataset, cfg *Config) (Manifest, error) {
	skip := cfg.excluded()
	want := []string{cfg.TimeVariable, cfg.LatitudeVariable, cfg.LongitudeVariable}
	var m Manifest
	for _, v := range ds.Variables() {
		if skip[v] {
			continue
		}
		dims, err := ds.Dimensions(v)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(dims, want) {
			return nil, fmt.Errorf("mikeraw: variable %q has dimensions %v but items need dimensions %v; "+
				"use ExcludeVariables to leave it out", v, dims, want)
		}
		longName, err := StringAttribute(ds, v, "long_name")
		if err != nil {
			return nil, err
		}
		units, err := StringAttribute(ds, v, "units")
		if err != nil {
			return nil, err
		}
		m = append(m, Item{Name: v, LongName: longName, Units: units})
	}
	return m, nil
}
