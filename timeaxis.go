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
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeAxis describes the time dimension of a dataset.
type TimeAxis struct {
	// Start is the time of the first record, in UTC.
	Start time.Time

	// Len is the number of records.
	Len int
}

// Date returns the start date formatted as YYYY-MM-DD.
func (t TimeAxis) Date() string { return t.Start.Format("2006-01-02") }

// Clock returns the start time of day formatted as HH:MM:SS.
func (t TimeAxis) Clock() string { return t.Start.Format("15:04:05") }

// ReadTimeAxis reads the time dimension and coordinate variable called name
// and decodes its first value using the variable's units and calendar
// attributes.
func ReadTimeAxis(ds Dataset, name string) (TimeAxis, error) {
	n, err := ds.Dimension(name)
	if err != nil {
		return TimeAxis{}, err
	}
	if _, err = ds.Dimensions(name); err != nil {
		return TimeAxis{}, err
	}
	units, err := StringAttribute(ds, name, "units")
	if err != nil {
		return TimeAxis{}, err
	}
	calendar, err := StringAttribute(ds, name, "calendar")
	if err != nil {
		return TimeAxis{}, err
	}
	if n == 0 {
		return TimeAxis{}, &IndexOutOfRangeError{Variable: name, Dimension: name, Index: 0, Length: 0}
	}
	vals, err := ds.Values(name)
	if err != nil {
		return TimeAxis{}, err
	}
	if len(vals) == 0 {
		return TimeAxis{}, &IndexOutOfRangeError{Variable: name, Dimension: name, Index: 0, Length: 0}
	}
	start, err := DecodeTime(vals[0], units, calendar)
	if err != nil {
		return TimeAxis{}, err
	}
	return TimeAxis{Start: start, Len: n}, nil
}

// timeUnits maps CF time unit names to their length in seconds.
var timeUnits = map[string]float64{
	"days": 86400, "day": 86400, "d": 86400,
	"hours": 3600, "hour": 3600, "hrs": 3600, "hr": 3600, "h": 3600,
	"minutes": 60, "minute": 60, "mins": 60, "min": 60,
	"seconds": 1, "second": 1, "secs": 1, "sec": 1, "s": 1,
	"milliseconds": 1e-3, "millisecond": 1e-3, "msecs": 1e-3, "msec": 1e-3, "ms": 1e-3,
}

// referenceTime matches CF reference times such as "1900-01-01 00:00:00.0",
// "1900-1-1" and "1970-01-01T00:00:00Z".
var referenceTime = regexp.MustCompile(`(?i)^(-?\d{1,4})-(\d{1,2})-(\d{1,2})` +
	`(?:[ T](\d{1,2}):(\d{1,2})(?::(\d{1,2})(\.\d*)?)?)?` +
	`\s*(Z|UTC|GMT|[+-]\d{1,2}(?::?\d{2})?)?$`)

// gregorianStart is the first day of the Gregorian calendar. The standard
// calendar is Julian before it.
var gregorianStart = time.Date(1582, time.October, 15, 0, 0, 0, 0, time.UTC)

// DecodeTime converts the time coordinate value v, expressed in CF units
// such as "hours since 1900-01-01 00:00:00.0", into a UTC time.
// Only the standard, gregorian and proleptic_gregorian calendars
// are supported.
func DecodeTime(v float64, units, calendar string) (time.Time, error) {
	malformed := func(format string, args ...interface{}) error {
		return &MalformedTimeAxisError{Units: units, Calendar: calendar, Reason: fmt.Sprintf(format, args...)}
	}

	cal := strings.ToLower(strings.TrimSpace(calendar))
	switch cal {
	case "", "standard", "gregorian", "proleptic_gregorian":
	default:
		return time.Time{}, malformed("unsupported calendar")
	}

	fields := strings.Fields(units)
	if len(fields) < 3 || strings.ToLower(fields[1]) != "since" {
		return time.Time{}, malformed(`units should have the form "<unit> since <reference time>"`)
	}
	unitSeconds, ok := timeUnits[strings.ToLower(fields[0])]
	if !ok {
		return time.Time{}, malformed("unknown time unit %q", fields[0])
	}
	ref, err := parseReferenceTime(strings.Join(fields[2:], " "))
	if err != nil {
		return time.Time{}, malformed("%v", err)
	}
	if cal != "proleptic_gregorian" && ref.Before(gregorianStart) {
		return time.Time{}, malformed("reference times before %s need the proleptic_gregorian calendar",
			gregorianStart.Format("2006-01-02"))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, malformed("first time value is missing")
	}

	ms := math.Round(v * unitSeconds * 1000)
	if math.Abs(ms) > math.MaxInt64/2 {
		return time.Time{}, malformed("time value %g is out of range", v)
	}
	msi := int64(ms)
	t := time.Unix(ref.Unix()+msi/1000, int64(ref.Nanosecond())+(msi%1000)*int64(time.Millisecond)).UTC()
	if cal != "proleptic_gregorian" && t.Before(gregorianStart) {
		return time.Time{}, malformed("time %s is before the start of the Gregorian calendar", t.Format(time.RFC3339))
	}
	return t, nil
}

// parseReferenceTime parses the part of CF time units following "since".
func parseReferenceTime(s string) (time.Time, error) {
	m := referenceTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("cannot parse reference time %q", s)
	}
	num := func(i int) int {
		if m[i] == "" {
			return 0
		}
		n, _ := strconv.Atoi(m[i])
		return n
	}
	year, month, day := num(1), num(2), num(3)
	hour, minute, sec := num(4), num(5), num(6)
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 24 || minute > 59 || sec > 60 {
		return time.Time{}, fmt.Errorf("reference time %q is out of range", s)
	}
	var nsec int
	if frac := m[7]; len(frac) > 1 {
		f, err := strconv.ParseFloat("0"+frac, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("reference time %q: %v", s, err)
		}
		nsec = int(math.Round(f * 1e9))
	}
	loc := time.UTC
	if zone := strings.ToUpper(m[8]); zone != "" && zone != "Z" && zone != "UTC" && zone != "GMT" {
		offset, err := parseZoneOffset(zone)
		if err != nil {
			return time.Time{}, fmt.Errorf("reference time %q: %v", s, err)
		}
		loc = time.FixedZone(zone, offset)
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc).UTC(), nil
}

// parseZoneOffset converts "+h", "+hh", "+hhmm" or "+hh:mm" to seconds east of UTC.
func parseZoneOffset(z string) (int, error) {
	sign := 1
	if z[0] == '-' {
		sign = -1
	}
	z = strings.Replace(z[1:], ":", "", 1)
	var h, m int
	var err error
	switch len(z) {
	case 1, 2:
		h, err = strconv.Atoi(z)
	case 3, 4:
		h, err = strconv.Atoi(z[:len(z)-2])
		if err == nil {
			m, err = strconv.Atoi(z[len(z)-2:])
		}
	default:
		return 0, fmt.Errorf("invalid time zone offset")
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time zone offset: %v", err)
	}
	return sign * (h*3600 + m*60), nil
}
