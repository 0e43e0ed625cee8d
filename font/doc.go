// seehuhn.de/go/cidglyph - glyph selection for TrueType-based CIDFonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package font holds the font descriptor shared by the font sub-packages.
//
// The sub-packages implement glyph selection for composite fonts with
// TrueType glyph outlines:
//   - [seehuhn.de/go/cidglyph/font/cidfont] resolves CIDs to glyph IDs,
//   - [seehuhn.de/go/cidglyph/font/cidtogid] decodes CIDToGIDMap streams,
//   - [seehuhn.de/go/cidglyph/font/cmap] reads CMaps and ToUnicode CMaps,
//   - [seehuhn.de/go/cidglyph/font/unicmap] chooses a Unicode "cmap" subtable,
//   - [seehuhn.de/go/cidglyph/font/loader] and
//     [seehuhn.de/go/cidglyph/font/gofont] supply substitute fonts.
package font
