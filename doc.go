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

// Package cidglyph finds the glyphs for text shown with TrueType-based
// composite fonts in PDF files.
//
// A Type 0 font with a CIDFontType2 descendant maps character codes to
// CIDs, and CIDs to glyph IDs in a TrueType font program.  When the font
// program is embedded, the CIDToGIDMap entry of the CIDFont dictionary
// describes the second step.  Otherwise a substitute font is used, and
// glyphs are located through its Unicode cmap subtable.
//
// The work is done by the sub-packages:
//
//	pdf            the PDF object model needed to read font dictionaries
//	font           font descriptors
//	font/cidfont   code to CID to glyph resolution and glyph metrics
//	font/cidtogid  CIDToGIDMap decoding and encoding
//	font/cmap      Encoding and ToUnicode CMaps
//	font/unicmap   choice of the Unicode cmap subtable
//	font/loader    substitute fonts by PostScript name
//	font/gofont    fallback fonts from the Go font family
//
// The command tools/cid2gid shows how codes are mapped for a given font.
package cidglyph
