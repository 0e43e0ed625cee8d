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

package cidfont

import (
	"context"
	"log/slog"
)

// Kind classifies the problems which can occur while mapping codes to
// glyphs.  None of these problems stop the mapping; instead, the affected
// glyphs may be rendered using the wrong glyph or the notdef glyph.
type Kind int

// These are the kinds of diagnostics reported by this package.
const (
	// FontSubstituted indicates that a fallback font is used in place of
	// the font named in the PDF file.
	FontSubstituted Kind = iota + 1

	// CIDToGIDUnreadable indicates that the CIDToGIDMap of the font could
	// not be read.  The map is treated as missing.
	CIDToGIDUnreadable

	// SubtableFallback indicates that the font program has no
	// Unicode-keyed cmap subtable.  Some other subtable is used instead.
	SubtableFallback

	// NoSubtable indicates that the font program has no usable cmap
	// subtable at all.
	NoSubtable

	// MultipleCodePoints indicates that the text for a character
	// has more than one code point.  Only the first code point is used.
	MultipleCodePoints
)

func (k Kind) String() string {
	switch k {
	case FontSubstituted:
		return "font substituted"
	case CIDToGIDUnreadable:
		return "CIDToGIDMap unreadable"
	case SubtableFallback:
		return "cmap subtable fallback"
	case NoSubtable:
		return "no cmap subtable"
	case MultipleCodePoints:
		return "multiple code points"
	default:
		return "unknown"
	}
}

// Level returns the log level used to report diagnostics of this kind.
func (k Kind) Level() slog.Level {
	if k == CIDToGIDUnreadable {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// Diagnostic describes a problem which was encountered and worked around.
type Diagnostic struct {
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	return d.Kind.String() + ": " + d.Message
}

// Report logs the diagnostics to the given logger.  If logger is nil,
// [slog.Default] is used.
func Report(logger *slog.Logger, diags []Diagnostic) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()
	for _, d := range diags {
		logger.Log(ctx, d.Kind.Level(), d.Message, "kind", d.Kind.String())
	}
}
