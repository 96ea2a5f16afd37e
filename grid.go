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
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// spacingTolerance is the relative difference between two grid steps
// above which the grid is reported as non-uniform.
const spacingTolerance = 1e-4

// Grid holds the horizontal coordinate axes of a dataset.
type Grid struct {
	Latitude, Longitude []float64

	// DLat and DLon are the absolute differences between the first two
	// latitude and longitude samples.
	DLat, DLon float64

	latName, lonName string
}

// NLat returns the number of latitude rows.
func (g *Grid) NLat() int { return len(g.Latitude) }

// NLon returns the number of longitude columns.
func (g *Grid) NLon() int { return len(g.Longitude) }

// ReadGrid reads the latitude and longitude dimensions and coordinate
// variables of ds.
func ReadGrid(ds Dataset, latName, lonName string) (*Grid, error) {
	lat, err := readAxis(ds, latName)
	if err != nil {
		return nil, err
	}
	lon, err := readAxis(ds, lonName)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Latitude:  lat,
		Longitude: lon,
		DLat:      math.Abs(lat[1] - lat[0]),
		DLon:      math.Abs(lon[1] - lon[0]),
		latName:   latName,
		lonName:   lonName,
	}, nil
}

// readAxis reads a one-dimensional coordinate variable with at least
// two samples.
func readAxis(ds Dataset, name string) ([]float64, error) {
	n, err := ds.Dimension(name)
	if err != nil {
		return nil, err
	}
	vals, err := ds.Values(name)
	if err != nil {
		return nil, err
	}
	if len(vals) != n {
		return nil, &IndexOutOfRangeError{Variable: name, Dimension: name, Index: len(vals) - 1, Length: n}
	}
	if n < 2 {
		return nil, &IndexOutOfRangeError{Variable: name, Dimension: name, Index: 1, Length: n}
	}
	return vals, nil
}

// Check logs a warning for each axis that is not strictly monotonic or
// not uniformly spaced. The header only records the first step, so
// such grids are written with distorted geometry.
func (g *Grid) Check(log logrus.FieldLogger) {
	for _, axis := range []struct {
		name string
		vals []float64
	}{{g.lonName, g.Longitude}, {g.latName, g.Latitude}} {
		steps := make([]float64, len(axis.vals)-1)
		floats.SubTo(steps, axis.vals[1:], axis.vals[:len(axis.vals)-1])
		if !(floats.Min(steps) > 0 || floats.Max(steps) < 0) {
			log.WithFields(logrus.Fields{"axis": axis.name}).Warn("coordinate axis is not strictly monotonic")
			continue
		}
		for i, s := range steps {
			if !floats.EqualWithinRel(s, steps[0], spacingTolerance) {
				log.WithFields(logrus.Fields{
					"axis":  axis.name,
					"index": i,
					"step":  s,
					"first": steps[0],
				}).Warn("coordinate axis is not uniformly spaced")
				break
			}
		}
	}
}
