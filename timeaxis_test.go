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
	"testing"
	"time"
)

func TestDecodeTime(t *testing.T) {
	tests := []struct {
		v               float64
		units, calendar string
		want            time.Time
	}{
		{
			v: 1051896, units: "hours since 1900-01-01 00:00:00.0", calendar: "gregorian",
			want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			v: 1051914, units: "hours since 1900-01-01 00:00:00.0", calendar: "gregorian",
			want: time.Date(2020, 1, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			v: 1.5, units: "days since 2000-1-1", calendar: "standard",
			want: time.Date(2000, 1, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			v: 90, units: "minutes since 1970-01-01T00:00:00Z", calendar: "proleptic_gregorian",
			want: time.Date(1970, 1, 1, 1, 30, 0, 0, time.UTC),
		},
		{
			v: 0, units: "seconds since 2010-06-01 12:00:00 +03:00", calendar: "",
			want: time.Date(2010, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			v: 1500, units: "milliseconds since 2010-06-01 00:00:00.5", calendar: "standard",
			want: time.Date(2010, 6, 1, 0, 0, 2, 0, time.UTC),
		},
		{
			v: 24, units: "hours since 1000-01-01", calendar: "proleptic_gregorian",
			want: time.Date(1000, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, test := range tests {
		t.Run(test.units, func(t *testing.T) {
			have, err := DecodeTime(test.v, test.units, test.calendar)
			if err != nil {
				t.Fatal(err)
			}
			if !have.Equal(test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestDecodeTimeMalformed(t *testing.T) {
	tests := []struct {
		units, calendar string
	}{
		{units: "hours after 1900-01-01", calendar: "gregorian"},
		{units: "fortnights since 1900-01-01", calendar: "gregorian"},
		{units: "hours since yesterday", calendar: "gregorian"},
		{units: "hours since 1900-13-01", calendar: "gregorian"},
		{units: "hours since 1900-01-01", calendar: "noleap"},
		{units: "hours since 1000-01-01", calendar: "gregorian"},
		{units: "hours", calendar: "gregorian"},
	}
	for _, test := range tests {
		_, err := DecodeTime(0, test.units, test.calendar)
		var e *MalformedTimeAxisError
		if !errors.As(err, &e) {
			t.Errorf("%q %q: want MalformedTimeAxisError, have %v", test.units, test.calendar, err)
		}
	}
}

func TestReadTimeAxis(t *testing.T) {
	d := newTestDataset()
	d.time0 = 1051914
	ds := openTestDataset(t, d, ClassicBackend)
	defer ds.Close()
	ta, err := ReadTimeAxis(ds, "time")
	if err != nil {
		t.Fatal(err)
	}
	if ta.Len != d.nt {
		t.Errorf("length: %d != %d", ta.Len, d.nt)
	}
	if ta.Date() != "2020-01-01" || ta.Clock() != "18:00:00" {
		t.Errorf("start: %s %s", ta.Date(), ta.Clock())
	}
}

func TestReadTimeAxisMissingAttribute(t *testing.T) {
	for _, attr := range []string{"units", "calendar"} {
		d := newTestDataset()
		d.omit = []string{"time:" + attr}
		ds := openTestDataset(t, d, ClassicBackend)
		_, err := ReadTimeAxis(ds, "time")
		var e *MissingAttributeError
		if !errors.As(err, &e) || e.Attribute != attr {
			t.Errorf("%s: want MissingAttributeError, have %v", attr, err)
		}
		ds.Close()
	}
}
