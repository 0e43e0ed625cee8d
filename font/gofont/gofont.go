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

// Package gofont provides access to the Go font family.
//
// The Go fonts are used as a last resort when a PDF file neither embeds a
// font nor names a font which can be found on the system.
package gofont

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/cidglyph/font"
)

// Font identifies individual fonts in the Go font family.
type Font int

// Constants for the available fonts in the Go font family.
const (
	Regular         Font = iota // Go Regular
	Bold                        // Go Semi Bold
	BoldItalic                  // Go Semi Bold Italic
	Italic                      // Go Italic
	Medium                      // Go Medium Regular
	MediumItalic                // Go Medium Italic
	Smallcaps                   // Go Smallcaps Regular
	SmallcapsItalic             // Go Smallcaps Italic
	Mono                        // Go Mono Regular
	MonoBold                    // Go Mono Semi Bold
	MonoBoldItalic              // Go Mono Semi Bold Italic
	MonoItalic                  // Go Mono Italic
)

func (f Font) String() string {
	if int(f) >= 0 && int(f) < len(fonts) {
		return fonts[f].name
	}
	return fmt.Sprintf("gofont.Font(%d)", int(f))
}

// Load returns the parsed font program.  Every font is parsed at most once;
// the returned value is shared between callers and must not be modified.
func (f Font) Load() (*sfnt.Font, error) {
	if int(f) < 0 || int(f) >= len(fonts) {
		return nil, fmt.Errorf("gofont: unknown font %d", f)
	}
	return fonts[f].load()
}

type entry struct {
	name string
	load func() (*sfnt.Font, error)
}

func newEntry(name string, ttf []byte) entry {
	return entry{
		name: name,
		load: sync.OnceValues(func() (*sfnt.Font, error) {
			info, err := sfnt.Read(bytes.NewReader(ttf))
			if err != nil {
				return nil, fmt.Errorf("gofont: %s: %w", name, err)
			}
			return info, nil
		}),
	}
}

var fonts = [...]entry{
	Regular:         newEntry("GoRegular", goregular.TTF),
	Bold:            newEntry("GoBold", gobold.TTF),
	BoldItalic:      newEntry("GoBoldItalic", gobolditalic.TTF),
	Italic:          newEntry("GoItalic", goitalic.TTF),
	Medium:          newEntry("GoMedium", gomedium.TTF),
	MediumItalic:    newEntry("GoMediumItalic", gomediumitalic.TTF),
	Smallcaps:       newEntry("GoSmallcaps", gosmallcaps.TTF),
	SmallcapsItalic: newEntry("GoSmallcapsItalic", gosmallcapsitalic.TTF),
	Mono:            newEntry("GoMono", gomono.TTF),
	MonoBold:        newEntry("GoMonoBold", gomonobold.TTF),
	MonoBoldItalic:  newEntry("GoMonoBoldItalic", gomonobolditalic.TTF),
	MonoItalic:      newEntry("GoMonoItalic", gomonoitalic.TTF),
}

// All contains all the Go font family fonts available in this package.
var All = []Font{
	Regular,
	Bold,
	BoldItalic,
	Italic,
	Medium,
	MediumItalic,
	Smallcaps,
	SmallcapsItalic,
	Mono,
	MonoBold,
	MonoBoldItalic,
	MonoItalic,
}

// Choose selects the member of the Go font family which best matches the
// given font descriptor.  A nil descriptor selects [Regular].
func Choose(fd *font.Descriptor) Font {
	if fd == nil {
		return Regular
	}

	bold := fd.IsBold()
	medium := !bold && fd.FontWeight >= os2.WeightMedium
	italic := fd.IsItalic || fd.ItalicAngle != 0

	switch {
	case fd.IsFixedPitch:
		switch {
		case bold && italic:
			return MonoBoldItalic
		case bold:
			return MonoBold
		case italic:
			return MonoItalic
		default:
			return Mono
		}
	case fd.IsSmallCap:
		if italic {
			return SmallcapsItalic
		}
		return Smallcaps
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case medium && italic:
		return MediumItalic
	case medium:
		return Medium
	case italic:
		return Italic
	default:
		return Regular
	}
}

// Fallback returns the Go font which best matches the given font
// descriptor, for use when no other font program is available.
func Fallback(fd *font.Descriptor) (*sfnt.Font, error) {
	return Choose(fd).Load()
}

// Gopher is the Unicode code point for the gopher symbol in the Go fonts.
const Gopher = '\uF800'
