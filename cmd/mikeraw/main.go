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

// Command mikeraw converts gridded NetCDF data into MIKE dfs2 raw text files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/mikeraw/mikerawutil"
)

func main() {
	cfg := mikerawutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
