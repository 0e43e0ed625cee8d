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

// Package unicmap chooses the "cmap" subtable used to map Unicode code
// points to glyphs, when a TrueType font is used as a substitute for a
// font which was not embedded.
package unicmap

import (
	"errors"
	"fmt"
	"slices"

	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// Platform and encoding IDs, see
// https://learn.microsoft.com/en-us/typography/opentype/spec/name#platform-ids
const (
	PlatformUnicode = 0
	PlatformMac     = 1
	PlatformWindows = 3

	EncodingUnicode20BMP  = 3
	EncodingUnicode20Full = 4

	EncodingWindowsSymbol     = 0
	EncodingWindowsUnicodeBMP = 1
)

// Preferred returns the subtables which map Unicode code points, in order of
// preference.  The caller may modify the returned slice.
func Preferred() []cmap.Key {
	return slices.Clone(preferred)
}

// Microsoft's "Recommendations for OpenType Fonts" say that fonts with the
// (3, 0) "Symbol" encoding still map Unicode code points, normally in
// the private use area.
var preferred = []cmap.Key{
	{PlatformID: PlatformUnicode, EncodingID: EncodingUnicode20Full},
	{PlatformID: PlatformUnicode, EncodingID: EncodingUnicode20BMP},
	{PlatformID: PlatformWindows, EncodingID: EncodingWindowsUnicodeBMP},
	{PlatformID: PlatformWindows, EncodingID: EncodingWindowsSymbol},
}

// ErrNoSubtable is returned by [Select] if the font has no usable "cmap"
// subtable.
var ErrNoSubtable = errors.New("unicmap: no usable cmap subtable")

// Selection is the result of [Select].
type Selection struct {
	// Key identifies the chosen subtable.
	Key cmap.Key

	// Subtable is the decoded subtable.
	Subtable cmap.Subtable

	// Fallback is true if none of the [Preferred] subtables was present.
	// In this case the subtable may not be keyed by Unicode code points.
	Fallback bool
}

func (s *Selection) String() string {
	res := fmt.Sprintf("(%d, %d)", s.Key.PlatformID, s.Key.EncodingID)
	if s.Fallback {
		res += " fallback"
	}
	return res
}

// Lookup returns the glyph for the code point r, or 0 if the subtable has no
// glyph for r.
func (s *Selection) Lookup(r rune) glyph.ID {
	if s == nil || s.Subtable == nil {
		return 0
	}
	return s.Subtable.Lookup(r)
}

// Select chooses the subtable used to map Unicode code points to glyphs.
// The subtables listed in [Preferred] are tried in order.  If none of these is
// present, the first subtable of the font is used, where subtables are
// ordered by platform ID, encoding ID and language, as in the binary "cmap"
// table.  Subtables which cannot be decoded are skipped.
//
// The returned Selection is read-only and can be shared between goroutines.
func Select(t cmap.Table) (*Selection, error) {
	for _, key := range preferred {
		if sub := decode(t, key); sub != nil {
			return &Selection{Key: key, Subtable: sub}, nil
		}
	}

	keys := make([]cmap.Key, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	for _, key := range keys {
		if sub := decode(t, key); sub != nil {
			return &Selection{Key: key, Subtable: sub, Fallback: true}, nil
		}
	}

	return nil, ErrNoSubtable
}

func compareKeys(a, b cmap.Key) int {
	if a.PlatformID != b.PlatformID {
		return int(a.PlatformID) - int(b.PlatformID)
	}
	if a.EncodingID != b.EncodingID {
		return int(a.EncodingID) - int(b.EncodingID)
	}
	return int(a.Language) - int(b.Language)
}

// decode returns the decoded subtable for key, or nil if the subtable is
// missing or cannot be decoded.
func decode(t cmap.Table, key cmap.Key) cmap.Subtable {
	data, ok := t[key]
	if !ok || !hasKnownFormat(data) {
		return nil
	}
	sub, err := t.Get(key)
	if err != nil {
		return nil
	}
	return sub
}

// hasKnownFormat checks the subtable header before the data is handed to
// [cmap.Table.Get], which expects subtables that have passed the checks in
// [cmap.Decode].  Only the formats used for Unicode mappings are accepted.
func hasKnownFormat(data []byte) bool {
	const minLength = 10 // length of an empty format 6 subtable
	if len(data) < minLength {
		return false
	}
	format := uint16(data[0])<<8 | uint16(data[1])
	switch format {
	case 0, 4, 6, 12:
		return true
	default:
		return false
	}
}
