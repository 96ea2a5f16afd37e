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

// Package mikerawutil contains the mikeraw command-line interface and
// the glue between its configuration and the conversion.
package mikerawutil

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mikeraw"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information and the commands that use it.
type Cfg struct {
	*viper.Viper

	Root                                *cobra.Command
	convertCmd, inspectCmd, versionCmd *cobra.Command

	// Log is the logger the commands write progress messages to.
	Log *logrus.Logger
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands and binds their flags
// to a new configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}
	cfg.Log.Formatter = &logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}

	cfg.Root = &cobra.Command{
		Use:   "mikeraw",
		Short: "Convert NetCDF data to MIKE dfs2 raw text.",
		Long: `mikeraw converts gridded NetCDF datasets (such as ERA5 reanalysis output)
into the dfs2 raw ASCII format that the DHI MIKE Zero toolbox imports.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MIKERAW_var' where 'var' is the
name of the variable to be set. File paths may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := cfg.setConfig(); err != nil {
				return err
			}
			return cfg.setLogLevel()
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of mikeraw.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mikeraw v%s\n", mikeraw.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Convert a NetCDF file.",
		Long: `convert reads InputFile and writes the dfs2 raw text file OutputFile.
OutputFile is only replaced once the conversion has succeeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.converter()
			if err != nil {
				return err
			}
			return c.Convert()
		},
		DisableAutoGenTag: true,
	}

	cfg.inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Describe a NetCDF file.",
		Long: `inspect reads the grid, time axis and items of InputFile and prints the
values that convert would write to the output header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.converter()
			if err != nil {
				return err
			}
			s, err := c.Inspect()
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), s)
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.convertCmd, cfg.inspectCmd)

	defaults := mikeraw.DefaultConfig()
	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of the log messages that are
              printed. Valid options are debug, info, warning and error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the NetCDF file to convert. It can
              include environment variables.`,
			shorthand:  "i",
			defaultVal: defaults.InputFile,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired dfs2 raw text output location.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: defaults.OutputFile,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Title",
			usage: `
              Title is the name of the geographical area written in the
              header of the output file.`,
			defaultVal: defaults.Title,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "TimestepHours",
			usage: `
              TimestepHours is the time between consecutive records of the
              input file, in hours.`,
			defaultVal: defaults.TimestepHours,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Precision",
			usage: `
              Precision is the number of digits printed after the decimal
              point of each value.`,
			defaultVal: defaults.Precision,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "IndexPolicy",
			usage: `
              IndexPolicy specifies which records are written. 'timestep'
              writes every timestep of every item. 'legacy' writes only the
              first timestep of each item, labelled as timestep 0.`,
			defaultVal: string(defaults.IndexPolicy),
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Backend",
			usage: `
              Backend specifies the library used to read InputFile. Valid
              options are 'auto', 'classic' (NetCDF classic files only) and
              'netcdf4' (NetCDF-4 and classic files).`,
			defaultVal: string(defaults.Backend),
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "TimeVariable",
			usage: `
              TimeVariable is the name of the time dimension and its
              coordinate variable.`,
			defaultVal: defaults.TimeVariable,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "LatitudeVariable",
			usage: `
              LatitudeVariable is the name of the latitude dimension and its
              coordinate variable.`,
			defaultVal: defaults.LatitudeVariable,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "LongitudeVariable",
			usage: `
              LongitudeVariable is the name of the longitude dimension and its
              coordinate variable.`,
			defaultVal: defaults.LongitudeVariable,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "ExcludeVariables",
			usage: `
              ExcludeVariables lists variables, other than the time, latitude
              and longitude coordinates, that should not be converted.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("MIKERAW")
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mikeraw: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogLevel applies the LogLevel option to cfg.Log.
func (cfg *Cfg) setLogLevel() error {
	lvl, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("mikeraw: invalid LogLevel: %v", err)
	}
	cfg.Log.SetLevel(lvl)
	return nil
}

// converter returns a converter for the current configuration.
func (cfg *Cfg) converter() (*mikeraw.Converter, error) {
	c, err := Config(cfg.Viper)
	if err != nil {
		return nil, err
	}
	conv := mikeraw.NewConverter(*c)
	conv.Log = cfg.Log
	return conv, nil
}

// printSummary writes a human-readable description of s to w.
func printSummary(w io.Writer, s *mikeraw.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Grid\t%d longitudes x %d latitudes\n", s.Grid.NLon(), s.Grid.NLat())
	fmt.Fprintf(tw, "Spacing\t%g %g\n", s.Grid.DLon, s.Grid.DLat)
	fmt.Fprintf(tw, "Start\t%s %s\n", s.Time.Date(), s.Time.Clock())
	fmt.Fprintf(tw, "Timesteps\t%d\n", s.Time.Len)
	fmt.Fprintf(tw, "Items\t%d\n", len(s.Items))
	for i, it := range s.Items {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i+1, it.Name, it.LongName, it.Units)
	}
	return tw.Flush()
}
