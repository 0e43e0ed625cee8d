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

// Package cidfont maps character codes of Type 0 fonts with a CIDFontType2
// descendant to glyphs of a TrueType font program.
//
// For embedded fonts the mapping from CIDs to glyph IDs is given by the
// CIDToGIDMap entry of the CIDFont dictionary.  For fonts which are not
// embedded, a substitute font is used and glyphs are found via the Unicode
// cmap subtable of the substitute font, unless the PDF file gives an
// explicit CIDToGIDMap.
//
// A [Type2] is immutable after construction and can be used concurrently
// from multiple goroutines.
package cidfont

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/psenc"
	"seehuhn.de/go/postscript/type1/names"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/cidglyph/font"
	"seehuhn.de/go/cidglyph/font/cidtogid"
	"seehuhn.de/go/cidglyph/font/cmap"
	"seehuhn.de/go/cidglyph/font/gofont"
	"seehuhn.de/go/cidglyph/font/loader"
	"seehuhn.de/go/cidglyph/font/unicmap"
)

// ErrNoFont is returned by [New] if the font is not embedded and no
// substitute font can be found.
var ErrNoFont = errors.New("cidfont: no font program available")

// Embedding describes where the font program of a font comes from.
type Embedding int

// These are the possible values of [Embedding].
const (
	// Embedded means that the font program is included in the PDF file.
	Embedded Embedding = iota

	// Substituted means that the font is not embedded, and a font program
	// from outside the PDF file is used.
	Substituted
)

func (e Embedding) String() string {
	switch e {
	case Embedded:
		return "embedded"
	case Substituted:
		return "substituted"
	default:
		return fmt.Sprintf("Embedding(%d)", int(e))
	}
}

// Options control how substitute fonts are found.
type Options struct {
	// Loader (optional) is used to find substitute fonts by PostScript name.
	Loader *loader.FontLoader

	// Fallback (optional) is used if the font is neither embedded nor
	// available through Loader.
	Fallback func(*font.Descriptor) (*sfnt.Font, error)
}

// defaultOptions are used when New is called with nil options.
// Fonts which are not embedded are replaced by the Go fonts.
var defaultOptions = &Options{
	Fallback: gofont.Fallback,
}

// method describes how CIDs are mapped to glyph IDs.
// It is fixed when the font is constructed.
type method int

const (
	// byIdentity uses the CID as the glyph ID.
	byIdentity method = iota

	// byTable uses an explicit CIDToGIDMap table.
	byTable

	// byStandardEncoding interprets the CID as a character code in the
	// standard encoding and looks up the glyph name in the Unicode cmap.
	byStandardEncoding

	// byToUnicode looks up the text for the CID in the ToUnicode cmap of
	// the font and then uses the Unicode cmap.
	byToUnicode
)

// Type2 maps character codes of a Type 0 font with a CIDFontType2
// descendant to glyphs, and gives the corresponding glyph metrics.
type Type2 struct {
	postScriptName string

	font      *sfnt.Font
	embedding Embedding
	method    method
	mapping   *cidtogid.Mapping

	encoding  *cmap.File
	toUnicode *cmap.ToUnicodeFile

	// codeIsUnicode is set if the Encoding CMap maps codes to text
	// instead of CIDs.
	codeIsUnicode bool

	// subtable is used by the Unicode based methods.
	subtable *unicmap.Selection

	diagnostics []Diagnostic
}

// New loads the font program for the given font and prepares the mapping
// from character codes to glyphs.
//
// If the font is embedded but the font program cannot be parsed, an error
// is returned.  If the font is not embedded and no substitute font can be
// found, [ErrNoFont] is returned.  All other problems are recorded as
// diagnostics, see [Type2.Diagnostics].
//
// If opt is nil, fonts which are not embedded are replaced by a font from
// the Go font family, see [gofont.Fallback].
func New(info *Type2Info, opt *Options) (*Type2, error) {
	if opt == nil {
		opt = defaultOptions
	}

	res := &Type2{
		postScriptName: info.PostScriptName,
		encoding:       info.Encoding,
		toUnicode:      info.ToUnicode,
	}

	if info.FontFile != nil {
		fontInfo, err := sfnt.Read(bytes.NewReader(info.FontFile))
		if err != nil {
			return nil, fmt.Errorf("cidfont: embedded font %q: %w", info.PostScriptName, err)
		}
		res.font = fontInfo
		res.embedding = Embedded
	} else {
		fontInfo, err := res.substitute(info, opt)
		if err != nil {
			return nil, err
		}
		res.font = fontInfo
		res.embedding = Substituted
	}

	mapping := info.CIDToGID
	if info.CIDToGIDErr != nil {
		res.addDiagnostic(CIDToGIDUnreadable, "%s: %v", info.PostScriptName, info.CIDToGIDErr)
		mapping = nil
	}

	switch {
	case mapping.IsExplicit() && mapping.Identity:
		res.method = byIdentity
		res.mapping = mapping
	case mapping.IsExplicit():
		res.method = byTable
		res.mapping = mapping
	case res.embedding == Embedded:
		res.method = byIdentity
		res.mapping = &cidtogid.Mapping{Identity: true}
	case info.IsSymbolic:
		res.method = byToUnicode
	default:
		res.method = byStandardEncoding
	}

	if res.method == byStandardEncoding || res.method == byToUnicode {
		sel, err := unicmap.Select(res.font.CMapTable)
		if err != nil {
			res.addDiagnostic(NoSubtable, "%s: %v", info.PostScriptName, err)
		} else {
			res.subtable = sel
			if sel.Fallback {
				res.addDiagnostic(SubtableFallback,
					"%s: using non-Unicode cmap subtable %s", info.PostScriptName, sel)
			}
		}
	}

	if res.encoding != nil {
		res.codeIsUnicode = !res.encoding.HasCIDMappings() && res.encoding.HasUnicodeMappings()
	}

	return res, nil
}

// substitute finds a font program for a font which is not embedded.
func (f *Type2) substitute(info *Type2Info, opt *Options) (*sfnt.Font, error) {
	if opt.Loader != nil && info.PostScriptName != "" {
		fontInfo, err := opt.Loader.Load(info.PostScriptName)
		if err == nil {
			return fontInfo, nil
		} else if !errors.Is(err, loader.ErrUnknownFont) {
			return nil, fmt.Errorf("cidfont: substitute for %q: %w", info.PostScriptName, err)
		}
	}

	if opt.Fallback != nil {
		fontInfo, err := opt.Fallback(info.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("cidfont: fallback for %q: %w", info.PostScriptName, err)
		}
		if fontInfo != nil {
			f.addDiagnostic(FontSubstituted, "using %s in place of %s",
				fontInfo.PostScriptName(), info.PostScriptName)
			return fontInfo, nil
		}
	}

	return nil, fmt.Errorf("%w for %q", ErrNoFont, info.PostScriptName)
}

func (f *Type2) addDiagnostic(kind Kind, format string, args ...any) {
	f.diagnostics = append(f.diagnostics, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns the problems found while constructing the font.
func (f *Type2) Diagnostics() []Diagnostic {
	return f.diagnostics
}

// Embedding reports whether the font program was embedded in the PDF file.
func (f *Type2) Embedding() Embedding {
	return f.embedding
}

// IsEmbedded reports whether the font program was embedded in the PDF file.
func (f *Type2) IsEmbedded() bool {
	return f.embedding == Embedded
}

// Font returns the font program used for the font.
// The returned value must not be modified.
func (f *Type2) Font() *sfnt.Font {
	return f.font
}

// CIDToGID returns the glyph ID for the given CID.
// If the CID cannot be mapped, glyph 0 (notdef) is returned.
func (f *Type2) CIDToGID(cidVal cid.CID) glyph.ID {
	gid, _ := f.Resolve(cidVal)
	return gid
}

// Resolve returns the glyph ID for the given CID, together with
// a description of any problems encountered.
// If the CID cannot be mapped, glyph 0 (notdef) is returned.
//
// The result is not checked against the number of glyphs in the font
// program.  Use [Type2.Width] for metrics, which treats glyph IDs outside
// the font as notdef.
func (f *Type2) Resolve(cidVal cid.CID) (glyph.ID, []Diagnostic) {
	switch f.method {
	case byIdentity, byTable:
		gid, _ := f.mapping.Lookup(uint32(cidVal))
		return gid, nil
	default:
		return f.lookupText(cidVal, f.Text(cidVal))
	}
}

// Text returns the text which is used to find the glyph for the given CID
// in the Unicode cmap subtable of a substituted font.  If glyphs are
// selected by an explicit or implicit CIDToGIDMap, the empty string is
// returned.
func (f *Type2) Text(cidVal cid.CID) string {
	switch f.method {
	case byStandardEncoding:
		if cidVal >= 256 {
			return ""
		}
		name := psenc.StandardEncoding[cidVal]
		if name == "" || name == ".notdef" {
			return ""
		}
		return names.ToUnicode(name, f.postScriptName)
	case byToUnicode:
		text, _ := f.toUnicode.Lookup(cmap.Code(cidVal))
		return text
	default:
		return ""
	}
}

// lookupText finds the glyph for text in the Unicode cmap subtable.
func (f *Type2) lookupText(cidVal cid.CID, text string) (glyph.ID, []Diagnostic) {
	if text == "" {
		return 0, nil
	}
	if f.subtable == nil {
		return 0, []Diagnostic{{
			Kind:    NoSubtable,
			Message: fmt.Sprintf("CID %d: no cmap subtable for %q", cidVal, text),
		}}
	}

	var diags []Diagnostic
	r, _ := utf8.DecodeRuneInString(text)
	if utf8.RuneCountInString(text) > 1 {
		diags = append(diags, Diagnostic{
			Kind:    MultipleCodePoints,
			Message: fmt.Sprintf("CID %d: using %q for %q", cidVal, r, text),
		})
	}
	return f.subtable.Lookup(r), diags
}

// CodeToCID returns the CID for the given character code.
//
// Normally the code is used as the CID.  If the Encoding CMap of the font
// maps codes to text instead of CIDs, the first code point of the text is
// used.
func (f *Type2) CodeToCID(code cmap.Code) cid.CID {
	if f.codeIsUnicode {
		if text, ok := f.encoding.ToUnicode(code); ok && text != "" {
			r, _ := utf8.DecodeRuneInString(text)
			return cid.CID(r)
		}
	}
	return cid.CID(code)
}

// CodeToGID returns the glyph ID for the given character code.
func (f *Type2) CodeToGID(code cmap.Code) glyph.ID {
	return f.CIDToGID(f.CodeToCID(code))
}

// Width returns the advance width of the glyph for the given character
// code, in PDF glyph space units.  Glyph IDs outside the font program
// use the width of the notdef glyph.
func (f *Type2) Width(code cmap.Code) float64 {
	numGlyphs := f.font.NumGlyphs()
	if numGlyphs == 0 {
		return 0
	}
	gid := f.CodeToGID(code)
	if int(gid) >= numGlyphs {
		gid = 0
	}
	w := float64(f.font.GlyphWidth(gid))
	if upem := f.font.UnitsPerEm; upem != 1000 {
		w = w * 1000 / float64(upem)
	}
	return w
}

// Height returns the height of the font, as a fraction of the em size.
// The value is the same for all character codes.
func (f *Type2) Height(code cmap.Code) float64 {
	return (float64(f.font.Ascent) - float64(f.font.Descent)) / float64(f.font.UnitsPerEm)
}

// FontMatrix returns the matrix which maps glyph space to text space.
func (f *Type2) FontMatrix() matrix.Matrix {
	return matrix.Scale(0.001, 0.001)
}
