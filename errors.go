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

import "fmt"

// MissingDimensionError is returned when the dataset has no dimension
// with the required name.
type MissingDimensionError struct {
	Name string
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("mikeraw: dataset has no dimension named %q", e.Name)
}

// MissingVariableError is returned when the dataset has no variable
// with the required name.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("mikeraw: dataset has no variable named %q", e.Name)
}

// MissingAttributeError is returned when a required attribute is absent
// or is not of the expected type.
type MissingAttributeError struct {
	Variable, Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("mikeraw: variable %q has no %q attribute", e.Variable, e.Attribute)
}

// MalformedTimeAxisError is returned when the time axis units or
// calendar cannot be interpreted.
type MalformedTimeAxisError struct {
	Units, Calendar string
	Reason          string
}

func (e *MalformedTimeAxisError) Error() string {
	return fmt.Sprintf("mikeraw: malformed time axis (units=%q, calendar=%q): %s",
		e.Units, e.Calendar, e.Reason)
}

// IOError wraps a failure to read or write the file at Path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("mikeraw: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IndexOutOfRangeError is returned when an index along a dimension
// of a variable falls outside of its length, including when a variable
// does not have the shape the grid requires.
type IndexOutOfRangeError struct {
	Variable, Dimension string
	Index, Length       int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("mikeraw: index %d is out of range for dimension %q of variable %q (length %d)",
		e.Index, e.Dimension, e.Variable, e.Length)
}
