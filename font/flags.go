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

package font

// Flags represents PDF Font Descriptor Flags.
// See section 9.8.2 of ISO 32000-2:2020.
type Flags uint32

// Possible values for PDF Font Descriptor Flags.
const (
	FlagFixedPitch  Flags = 1 << 0  // All glyphs have the same width.
	FlagSerif       Flags = 1 << 1  // Glyphs have serifs.
	FlagSymbolic    Flags = 1 << 2  // Font contains glyphs outside the Adobe standard Latin character set.
	FlagScript      Flags = 1 << 3  // Glyphs resemble cursive handwriting.
	FlagNonsymbolic Flags = 1 << 5  // Font uses the Adobe standard Latin character set or a subset of it.
	FlagItalic      Flags = 1 << 6  // Glyphs have dominant vertical strokes that are slanted.
	FlagAllCap      Flags = 1 << 16 // Font contains no lowercase letters.
	FlagSmallCap    Flags = 1 << 17 // Lowercase letters are small versions of the uppercase letters.
	FlagForceBold   Flags = 1 << 18 // Bold glyphs are painted with extra pixels even at small text sizes.
)

// Flags returns the flags for the font descriptor.
// Exactly one of FlagSymbolic and FlagNonsymbolic is set.
func (d *Descriptor) Flags() Flags {
	var flags Flags
	if d.IsFixedPitch {
		flags |= FlagFixedPitch
	}
	if d.IsSerif {
		flags |= FlagSerif
	}
	if d.IsSymbolic {
		flags |= FlagSymbolic
	} else {
		flags |= FlagNonsymbolic
	}
	if d.IsScript {
		flags |= FlagScript
	}
	if d.IsItalic {
		flags |= FlagItalic
	}
	if d.IsAllCap {
		flags |= FlagAllCap
	}
	if d.IsSmallCap {
		flags |= FlagSmallCap
	}
	if d.ForceBold {
		flags |= FlagForceBold
	}
	return flags
}

// SetFlags sets the boolean fields of d from the given flags.
func (d *Descriptor) SetFlags(flags Flags) {
	d.IsFixedPitch = flags&FlagFixedPitch != 0
	d.IsSerif = flags&FlagSerif != 0
	d.IsSymbolic = flags&FlagSymbolic != 0
	d.IsScript = flags&FlagScript != 0
	d.IsItalic = flags&FlagItalic != 0
	d.IsAllCap = flags&FlagAllCap != 0
	d.IsSmallCap = flags&FlagSmallCap != 0
	d.ForceBold = flags&FlagForceBold != 0
}
