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
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IndexPolicy selects how the payload walks the time dimension.
type IndexPolicy string

const (
	// TimestepPolicy writes every timestep of every item:
	// one marker per (item, timestep) followed by every latitude row.
	TimestepPolicy IndexPolicy = "timestep"

	// LegacyPolicy writes the first timestep only: a single marker per
	// item, labelled timestep 0, followed by the latitude rows of that
	// timestep. Later timesteps are skipped.
	LegacyPolicy IndexPolicy = "legacy"
)

// Backend names the library used to read the input dataset.
type Backend string

const (
	// AutoBackend picks a backend from the file's magic number.
	AutoBackend Backend = "auto"
	// ClassicBackend reads NetCDF classic (CDF-1 and CDF-2) files.
	ClassicBackend Backend = "classic"
	// NetCDF4Backend reads HDF5-based NetCDF-4 files as well as classic files.
	NetCDF4Backend Backend = "netcdf4"
)

// maxPrecision keeps printed values within the fixed field width.
const maxPrecision = 15

// Config holds everything needed for one conversion.
type Config struct {
	// InputFile is the path to the NetCDF dataset to convert.
	InputFile string

	// OutputFile is the path the dfs2 raw text file is written to.
	// Any existing file is replaced once the conversion succeeds.
	OutputFile string

	// Title is the geographical area label written in the header.
	Title string

	// TimestepHours is the length of one timestep in hours.
	TimestepHours float64

	// Precision is the number of digits printed after the decimal point.
	Precision int

	IndexPolicy IndexPolicy
	Backend     Backend

	// TimeVariable, LatitudeVariable and LongitudeVariable name the
	// axis dimensions and their coordinate variables.
	TimeVariable, LatitudeVariable, LongitudeVariable string

	// ExcludeVariables lists variables, besides the axes, that
	// are left out of the item manifest.
	ExcludeVariables []string
}

// DefaultConfig returns the configuration the conversion has
// historically been run with.
func DefaultConfig() Config {
	return Config{
		OutputFile:        "mike-raw-dfs2.txt",
		Title:             "persian-gulf-oman-sea",
		TimestepHours:     6,
		Precision:         7,
		IndexPolicy:       TimestepPolicy,
		Backend:           AutoBackend,
		TimeVariable:      "time",
		LatitudeVariable:  "latitude",
		LongitudeVariable: "longitude",
	}
}

// TimestepSeconds returns the timestep length in whole seconds.
func (c *Config) TimestepSeconds() int {
	return int(math.Round(c.TimestepHours * 3600))
}

// Validate checks that c describes a conversion that can be run
// against the file system fs.
func (c *Config) Validate(fs afero.Fs) error {
	if c.InputFile == "" {
		return fmt.Errorf("mikeraw: you need to specify an input file (for example: InputFile=\"era5.nc\")")
	}
	if err := checkOutputFile(fs, c.OutputFile); err != nil {
		return err
	}
	if strings.ContainsAny(c.Title, "\"\r\n") {
		return fmt.Errorf("mikeraw: Title %q may not contain quotes or line breaks", c.Title)
	}
	if !(c.TimestepHours > 0) {
		return fmt.Errorf("mikeraw: TimestepHours=%g but should be >0", c.TimestepHours)
	}
	if s := c.TimestepHours * 3600; math.Abs(s-math.Round(s)) > 1e-6 {
		return fmt.Errorf("mikeraw: TimestepHours=%g is not a whole number of seconds", c.TimestepHours)
	}
	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("mikeraw: Precision=%d but should be between 0 and %d", c.Precision, maxPrecision)
	}
	switch c.IndexPolicy {
	case TimestepPolicy, LegacyPolicy:
	default:
		return fmt.Errorf("mikeraw: the IndexPolicy you specified, '%s', is invalid. Valid options are %s and %s",
			c.IndexPolicy, TimestepPolicy, LegacyPolicy)
	}
	switch c.Backend {
	case AutoBackend, ClassicBackend, NetCDF4Backend:
	default:
		return fmt.Errorf("mikeraw: the Backend you specified, '%s', is invalid. Valid options are %s, %s and %s",
			c.Backend, AutoBackend, ClassicBackend, NetCDF4Backend)
	}

	axes := []string{c.TimeVariable, c.LatitudeVariable, c.LongitudeVariable}
	axisNames := []string{"TimeVariable", "LatitudeVariable", "LongitudeVariable"}
	seen := make(map[string]string)
	for i, v := range axes {
		if v == "" {
			return fmt.Errorf("mikeraw: configuration variable %s is not specified", axisNames[i])
		}
		if other, ok := seen[v]; ok {
			return fmt.Errorf("mikeraw: %s and %s are both set to %q", other, axisNames[i], v)
		}
		seen[v] = axisNames[i]
	}
	return nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists.
func checkOutputFile(fs afero.Fs, f string) error {
	if f == "" {
		return fmt.Errorf(`mikeraw: you need to specify an output file (for example: OutputFile="mike-raw-dfs2.txt")`)
	}
	outdir := filepath.Dir(f)
	if _, err := fs.Stat(outdir); err != nil {
		return fmt.Errorf("mikeraw: the OutputFile directory doesn't exist: %v", err)
	}
	return nil
}

// excluded returns the set of variable names that are not items.
func (c *Config) excluded() map[string]bool {
	o := map[string]bool{
		c.TimeVariable:      true,
		c.LatitudeVariable:  true,
		c.LongitudeVariable: true,
	}
	for _, v := range c.ExcludeVariables {
		o[v] = true
	}
	return o
}
