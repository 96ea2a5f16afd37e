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

	"github.com/sirupsen/logrus"
)

// timesteps returns the number of timesteps written per item
// under policy p for a time axis of length nt.
func (p IndexPolicy) timesteps(nt int) int {
	if p == LegacyPolicy && nt > 1 {
		return 1
	}
	return nt
}

// writePayload writes the marker and rows of every item in s.Items,
// item by item, walking time according to policy.
func writePayload(ds Dataset, w *Writer, s *Summary, policy IndexPolicy, log logrus.FieldLogger) error {
	nt := policy.timesteps(s.Time.Len)
	if skipped := s.Time.Len - nt; skipped > 0 {
		log.WithFields(logrus.Fields{
			"policy":  policy,
			"skipped": skipped,
		}).Warn("only the first timestep of each item is written")
	}
	nlat, nlon := s.Grid.NLat(), s.Grid.NLon()
	for i, item := range s.Items {
		rows := 0
		for t := 0; t < nt; t++ {
			slab, err := ds.Slab(item.Name, t)
			if err != nil {
				return err
			}
			if len(slab.Shape) != 2 || slab.Shape[0] != nlat || slab.Shape[1] != nlon {
				return fmt.Errorf("mikeraw: variable %s has shape %v at timestep %d but the grid is %dx%d",
					item.Name, slab.Shape, t, nlat, nlon)
			}
			if err := w.WriteMarker(t, i+1); err != nil {
				return err
			}
			for lat := 0; lat < nlat; lat++ {
				if err := w.WriteRow(slab.Elements[lat*nlon : (lat+1)*nlon]); err != nil {
					return err
				}
				rows++
			}
		}
		log.WithFields(logrus.Fields{
			"item":      i + 1,
			"name":      item.Name,
			"timesteps": nt,
			"rows":      rows,
		}).Debug("wrote item")
	}
	return nil
}
