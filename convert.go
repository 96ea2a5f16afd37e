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

// Package mikeraw converts gridded NetCDF datasets, such as ERA5 reanalysis
// output, into the dfs2 raw ASCII format read by the DHI MIKE Zero toolbox.
package mikeraw

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mikeraw/internal/hash"
	"github.com/spf13/afero"
)

// outputMode is the permission of the converted file.
const outputMode os.FileMode = 0644

// Converter converts a NetCDF dataset into a MIKE dfs2 raw text file.
type Converter struct {
	Config

	// Fs is the file system the input is read from and the output is
	// written to.
	Fs afero.Fs

	// Log receives progress messages.
	Log logrus.FieldLogger
}

// NewConverter returns a Converter for cfg that works on the
// operating system file system and logs to the standard logger.
func NewConverter(cfg Config) *Converter {
	return &Converter{
		Config: cfg,
		Fs:     afero.NewOsFs(),
		Log:    logrus.StandardLogger(),
	}
}

// Summary describes the parts of a dataset that end up in the
// output header.
type Summary struct {
	Grid  *Grid
	Time  TimeAxis
	Items Manifest
}

// summarize reads the grid, time axis and item manifest of ds.
func summarize(ds Dataset, cfg *Config) (*Summary, error) {
	g, err := ReadGrid(ds, cfg.LatitudeVariable, cfg.LongitudeVariable)
	if err != nil {
		return nil, err
	}
	t, err := ReadTimeAxis(ds, cfg.TimeVariable)
	if err != nil {
		return nil, err
	}
	items, err := ReadManifest(ds, cfg)
	if err != nil {
		return nil, err
	}
	return &Summary{Grid: g, Time: t, Items: items}, nil
}

// Inspect reads the input dataset and returns what would be written to
// the output header, without writing anything.
func (c *Converter) Inspect() (*Summary, error) {
	if c.InputFile == "" {
		return nil, fmt.Errorf("mikeraw: you need to specify an input file (for example: InputFile=\"era5.nc\")")
	}
	ds, err := OpenDataset(c.Fs, c.InputFile, c.Backend)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	return summarize(ds, &c.Config)
}

// Convert runs the conversion. The output is first written to a
// temporary file in the output directory, which replaces OutputFile
// only once everything has been written. On failure OutputFile is
// left as it was.
func (c *Converter) Convert() (err error) {
	if err = c.Validate(c.Fs); err != nil {
		return err
	}
	log := c.Log.WithFields(logrus.Fields{
		"input":  c.InputFile,
		"output": c.OutputFile,
		"config": hash.Hash(c.Config),
	})
	log.Info("starting conversion")

	ds, err := OpenDataset(c.Fs, c.InputFile, c.Backend)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ds.Close(); err == nil && cerr != nil {
			err = &IOError{Path: c.InputFile, Err: cerr}
		}
	}()

	s, err := summarize(ds, &c.Config)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"nlon":      s.Grid.NLon(),
		"nlat":      s.Grid.NLat(),
		"timesteps": s.Time.Len,
		"start":     s.Time.Start,
		"items":     len(s.Items),
	}).Info("read dataset")
	s.Grid.Check(log)

	f, err := afero.TempFile(c.Fs, filepath.Dir(c.OutputFile), "."+filepath.Base(c.OutputFile)+".")
	if err != nil {
		return &IOError{Path: c.OutputFile, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			c.Fs.Remove(tmp)
		}
	}()

	w := NewWriter(f, c.Precision)
	h := &FileHeader{
		Title:           c.Title,
		Grid:            s.Grid,
		Time:            s.Time,
		TimestepSeconds: c.TimestepSeconds(),
		Items:           s.Items,
	}
	if err = w.WriteHeader(h); err != nil {
		return &IOError{Path: tmp, Err: err}
	}
	if err = writePayload(ds, w, s, c.IndexPolicy, log); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return &IOError{Path: tmp, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Path: tmp, Err: err}
	}
	// Temporary files are created owner-only.
	if err = c.Fs.Chmod(tmp, outputMode); err != nil {
		return &IOError{Path: tmp, Err: err}
	}
	if err = c.Fs.Rename(tmp, c.OutputFile); err != nil {
		return &IOError{Path: c.OutputFile, Err: err}
	}
	if fi, serr := c.Fs.Stat(c.OutputFile); serr == nil {
		log = log.WithField("bytes", fi.Size())
	}
	log.Info("finished conversion")
	return nil
}
