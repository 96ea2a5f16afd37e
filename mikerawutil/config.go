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

package mikerawutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/mikeraw"
	"github.com/spf13/cast"
)

// Config unmarshals a viper configuration into a conversion configuration.
// Environment variables in file paths are expanded. The result is not
// validated; that happens when the conversion starts.
func Config(cfg *viper.Viper) (*mikeraw.Config, error) {
	c := mikeraw.DefaultConfig()

	c.InputFile = os.ExpandEnv(cfg.GetString("InputFile"))
	c.OutputFile = os.ExpandEnv(cfg.GetString("OutputFile"))
	c.Title = cfg.GetString("Title")
	c.IndexPolicy = mikeraw.IndexPolicy(strings.ToLower(cfg.GetString("IndexPolicy")))
	c.Backend = mikeraw.Backend(strings.ToLower(cfg.GetString("Backend")))
	c.TimeVariable = cfg.GetString("TimeVariable")
	c.LatitudeVariable = cfg.GetString("LatitudeVariable")
	c.LongitudeVariable = cfg.GetString("LongitudeVariable")

	var err error
	if c.TimestepHours, err = cast.ToFloat64E(cfg.Get("TimestepHours")); err != nil {
		return nil, fmt.Errorf("mikeraw: reading configuration variable TimestepHours: %v", err)
	}
	if c.Precision, err = cast.ToIntE(cfg.Get("Precision")); err != nil {
		return nil, fmt.Errorf("mikeraw: reading configuration variable Precision: %v", err)
	}
	if c.ExcludeVariables, err = stringSlice(cfg.Get("ExcludeVariables")); err != nil {
		return nil, fmt.Errorf("mikeraw: reading configuration variable ExcludeVariables: %v", err)
	}
	return &c, nil
}

// stringSlice converts a list from a configuration file, a flag or an
// environment variable into a slice of strings. Strings are split at
// commas and white space.
func stringSlice(v interface{}) ([]string, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
		v = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	}
	o, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range o {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
