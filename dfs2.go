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
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	// fieldWidth is the minimum width of every printed value.
	fieldWidth = 10

	// deleteValue is the MIKE delete value, which marks missing data.
	deleteValue = "-1E-030"
)

// customBlock is the fixed M21_Misc custom block and the lines that
// follow it. MIKE 21 expects these values verbatim.
const customBlock = `NoCustomBlocks 1
"M21_Misc" 1 7 0 -1E-030 -900 -999 -1E-030 -1E-030 -1E-030
"Delete" -1E-030
"DataType" 0
`

// FileHeader is everything written before the payload.
type FileHeader struct {
	Title           string
	Grid            *Grid
	Time            TimeAxis
	TimestepSeconds int
	Items           Manifest
}

// Writer writes the dfs2 raw text format. Errors are sticky: after the
// first failed write every method returns the same error.
type Writer struct {
	w         *bufio.Writer
	precision int
	buf       []byte
	err       error
}

// NewWriter returns a Writer printing values with precision digits after
// the decimal point.
func NewWriter(w io.Writer, precision int) *Writer {
	return &Writer{w: bufio.NewWriter(w), precision: precision}
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// WriteHeader writes the header, the item manifest and the custom block
// footer, followed by a blank line.
func (w *Writer) WriteHeader(h *FileHeader) error {
	g := h.Grid
	w.printf("\"Title\" \"%s\"\n", h.Title)
	w.printf("\"Dim\" 2\n")
	w.printf("\"Geo\" \"LONG/LAT\" %d %d 0\n", g.NLon(), g.NLat())
	w.printf("\"Time\" \"EqudistantTimeAxis\" \"%s\" \"%s\" %d %d\n",
		h.Time.Date(), h.Time.Clock(), h.Time.Len, h.TimestepSeconds)
	w.printf("\"NoGridPoints\" %d %d\n", g.NLon(), g.NLat())
	w.printf("\"Spacing\" %s %s\n", formatGeneral(g.DLon), formatGeneral(g.DLat))
	w.printf("\"NoStaticItems\" 0\n")
	w.printf("\"NoDynamicItems\" %d\n", len(h.Items))
	for _, it := range h.Items {
		w.printf("\"Item\" \"%s\" \"%s\" \"%s\"\n", it.Name, it.LongName, it.Units)
	}
	w.printf("%s\n", customBlock)
	return w.err
}

// WriteMarker writes a blank line and the marker that starts the
// rows of item (1-based) at timestep tstep (0-based).
func (w *Writer) WriteMarker(tstep, item int) error {
	w.printf("\n\"tstep\" %d \"item\" %d \"layer\" 0\n", tstep, item)
	return w.err
}

// WriteRow writes one latitude row. Missing values (NaN or infinite)
// are written as the delete value.
func (w *Writer) WriteRow(vals []float64) error {
	if w.err != nil {
		return w.err
	}
	w.buf = w.buf[:0]
	for i, v := range vals {
		if i > 0 {
			w.buf = append(w.buf, ' ')
		}
		w.buf = w.appendValue(w.buf, v)
	}
	w.buf = append(w.buf, '\n')
	_, w.err = w.w.Write(w.buf)
	return w.err
}

// appendValue appends v right-aligned in fieldWidth columns with the
// writer's precision, as "%10.7f" does for a precision of 7.
func (w *Writer) appendValue(b []byte, v float64) []byte {
	var s []byte
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s = []byte(deleteValue)
	} else {
		s = strconv.AppendFloat(nil, v, 'f', w.precision, 64)
	}
	for i := len(s); i < fieldWidth; i++ {
		b = append(b, ' ')
	}
	return append(b, s...)
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// formatGeneral formats v like the C "%g" verb: six significant digits,
// trailing zeros removed, exponent form for very small or large values.
func formatGeneral(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
