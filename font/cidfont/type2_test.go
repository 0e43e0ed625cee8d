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
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt"
	sfntcmap "seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/cidglyph/font"
	"seehuhn.de/go/cidglyph/font/cidtogid"
	"seehuhn.de/go/cidglyph/font/cmap"
	"seehuhn.de/go/cidglyph/font/loader"
)

// ttFont creates a minimal TrueType font for testing.
func ttFont(numGlyphs int, cmaps sfntcmap.Table) *sfnt.Font {
	return &sfnt.Font{
		FamilyName: "Test",
		UnitsPerEm: 1000,
		Outlines: &glyf.Outlines{
			Glyphs: make(glyf.Glyphs, numGlyphs),
			Widths: make([]funit.Int16, numGlyphs),
		},
		CMapTable: cmaps,
	}
}

func encFormat0(code byte, gid byte) []byte {
	f := &sfntcmap.Format0{}
	f.Data[code] = gid
	return f.Encode(0)
}

func encFormat4(m map[uint16]glyph.ID) []byte {
	f := sfntcmap.Format4{}
	for code, gid := range m {
		f[code] = gid
	}
	return f.Encode(0)
}

var windowsBMP = sfntcmap.Key{PlatformID: 3, EncodingID: 1}

// substitute returns options which make New use the given font
// as a substitute.
func substitute(f *sfnt.Font) *Options {
	return &Options{
		Fallback: func(*font.Descriptor) (*sfnt.Font, error) {
			return f, nil
		},
	}
}

func embeddedInfo(m *cidtogid.Mapping) *Type2Info {
	return &Type2Info{
		PostScriptName: "GoRegular",
		FontFile:       goregular.TTF,
		CIDToGID:       m,
	}
}

func TestEmbedded(t *testing.T) {
	type check struct {
		cid cid.CID
		gid glyph.ID
	}
	cases := []struct {
		name    string
		mapping *cidtogid.Mapping
		checks  []check
	}{
		{
			name:    "no map",
			mapping: &cidtogid.Mapping{},
			checks:  []check{{0, 0}, {1, 1}, {17, 17}, {100, 100}},
		},
		{
			name:    "nil map",
			mapping: nil,
			checks:  []check{{0, 0}, {5, 5}},
		},
		{
			name:    "identity",
			mapping: &cidtogid.Mapping{Identity: true},
			checks:  []check{{0, 0}, {1, 1}, {200, 200}},
		},
		{
			name:    "table",
			mapping: &cidtogid.Mapping{Table: []glyph.ID{5, 10}},
			checks:  []check{{0, 5}, {1, 10}, {2, 0}, {1000, 0}},
		},
		{
			name:    "glyph past end of font",
			mapping: &cidtogid.Mapping{Table: []glyph.ID{3, 0xFFFF}},
			checks:  []check{{0, 3}, {1, 0xFFFF}, {2, 0}},
		},
		{
			name:    "large CIDs",
			mapping: &cidtogid.Mapping{Identity: true},
			checks:  []check{{0xFFFF, 0xFFFF}, {0x10041, 0}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, err := New(embeddedInfo(c.mapping), nil)
			if err != nil {
				t.Fatal(err)
			}
			if !f.IsEmbedded() || f.Embedding() != Embedded {
				t.Error("font not classified as embedded")
			}
			if len(f.Diagnostics()) != 0 {
				t.Errorf("unexpected diagnostics: %v", f.Diagnostics())
			}
			for _, check := range c.checks {
				gid, diags := f.Resolve(check.cid)
				if gid != check.gid {
					t.Errorf("CID %d: got GID %d, want %d", check.cid, gid, check.gid)
				}
				if len(diags) != 0 {
					t.Errorf("CID %d: unexpected diagnostics: %v", check.cid, diags)
				}
			}
		})
	}
}

func TestEmbeddedBroken(t *testing.T) {
	info := &Type2Info{
		PostScriptName: "Broken",
		FontFile:       []byte("this is not a font"),
		CIDToGID:       &cidtogid.Mapping{},
	}
	_, err := New(info, substitute(ttFont(10, nil)))
	if err == nil {
		t.Fatal("missing error")
	}
	if errors.Is(err, ErrNoFont) {
		t.Error("broken embedded font reported as missing font")
	}
}

func TestSubstitutedStandardEncoding(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{
			'A':    3,
			0xFB01: 7,  // fi
			'B':    25, // past the end of the font, returned unchanged
		}),
	})
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if f.IsEmbedded() {
		t.Error("font classified as embedded")
	}
	if f.Font() != sub {
		t.Error("wrong font program")
	}

	cases := []struct {
		cid cid.CID
		gid glyph.ID
	}{
		{65, 3},   // "A"
		{0xAE, 7}, // "fi"
		{66, 25},  // "B"
		{67, 0},   // "C" is not in the cmap
		{0, 0},    // no glyph name
		{300, 0},  // outside the encoding
	}
	for _, c := range cases {
		if gid := f.CIDToGID(c.cid); gid != c.gid {
			t.Errorf("CID %d: got GID %d, want %d", c.cid, gid, c.gid)
		}
	}

	var kinds []Kind
	for _, d := range f.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	if d := cmp.Diff([]Kind{FontSubstituted}, kinds); d != "" {
		t.Errorf("diagnostics (-want +got):\n%s", d)
	}
}

func TestSubstitutedSymbolic(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{
			'B':  4,
			'e':  7,
			'f':  5,
			0xE9: 6, // é
		}),
	})
	toUni := &cmap.ToUnicodeFile{
		CodeSpaceRange: cmap.Simple,
		Singles: []cmap.UnicodeSingle{
			{Code: []byte{0x01}, Value: "B"},
			{Code: []byte{0x02}, Value: "fi"},
			{Code: []byte{0x03}, Value: "e\u0301"},
		},
	}
	info := &Type2Info{
		PostScriptName: "Symbols",
		IsSymbolic:     true,
		ToUnicode:      toUni,
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		cid       cid.CID
		gid       glyph.ID
		wantKinds []Kind
	}{
		{1, 4, nil},
		{2, 5, []Kind{MultipleCodePoints}},
		{3, 7, []Kind{MultipleCodePoints}}, // only the first code point is used
		{4, 0, nil},                        // not in the ToUnicode map
		{65, 0, nil},
	}
	for _, c := range cases {
		gid, diags := f.Resolve(c.cid)
		if gid != c.gid {
			t.Errorf("CID %d: got GID %d, want %d", c.cid, gid, c.gid)
		}
		var kinds []Kind
		for _, d := range diags {
			kinds = append(kinds, d.Kind)
		}
		if d := cmp.Diff(c.wantKinds, kinds); d != "" {
			t.Errorf("CID %d: diagnostics (-want +got):\n%s", c.cid, d)
		}
	}
}

func TestSubstitutedSymbolicNoToUnicode(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4}),
	})
	info := &Type2Info{
		PostScriptName: "Symbols",
		IsSymbolic:     true,
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if gid := f.CIDToGID(65); gid != 0 {
		t.Errorf("got GID %d, want 0", gid)
	}
}

func TestSubstitutedExplicitMap(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4}),
	})

	// An explicit map takes priority over the Unicode cmap.
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{Identity: true},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	for c, gid := range map[cid.CID]glyph.ID{0: 0, 1: 1, 13: 13, 65: 65} {
		if got := f.CIDToGID(c); got != gid {
			t.Errorf("identity: CID %d: got GID %d, want %d", c, got, gid)
		}
	}

	info.CIDToGID = &cidtogid.Mapping{Table: []glyph.ID{0, 9, 8}}
	f, err = New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	want := map[cid.CID]glyph.ID{0: 0, 1: 9, 2: 8, 3: 0, 65: 0}
	for c, gid := range want {
		if got := f.CIDToGID(c); got != gid {
			t.Errorf("table: CID %d: got GID %d, want %d", c, got, gid)
		}
	}
}

func TestCIDToGIDUnreadable(t *testing.T) {
	readErr := errors.New("disk on fire")

	info := embeddedInfo(&cidtogid.Mapping{})
	info.CIDToGIDErr = readErr
	f, err := New(info, nil)
	if err != nil {
		t.Fatal(err)
	}
	if gid := f.CIDToGID(42); gid != 42 {
		t.Errorf("embedded: got GID %d, want 42", gid)
	}
	diags := f.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != CIDToGIDUnreadable {
		t.Errorf("unexpected diagnostics %v", diags)
	}

	// For substituted fonts, the Unicode cmap is used instead.
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4}),
	})
	info = &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
		CIDToGIDErr:    readErr,
	}
	f, err = New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if gid := f.CIDToGID(65); gid != 4 {
		t.Errorf("substituted: got GID %d, want 4", gid)
	}
}

func TestSubtableFallback(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		{PlatformID: 1, EncodingID: 0}: encFormat0('A', 9),
	})
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if gid := f.CIDToGID(65); gid != 9 {
		t.Errorf("got GID %d, want 9", gid)
	}

	var kinds []Kind
	for _, d := range f.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	if d := cmp.Diff([]Kind{FontSubstituted, SubtableFallback}, kinds); d != "" {
		t.Errorf("diagnostics (-want +got):\n%s", d)
	}
}

func TestNoSubtable(t *testing.T) {
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(ttFont(20, nil)))
	if err != nil {
		t.Fatal(err)
	}
	gid, diags := f.Resolve(65)
	if gid != 0 {
		t.Errorf("got GID %d, want 0", gid)
	}
	if len(diags) != 1 || diags[0].Kind != NoSubtable {
		t.Errorf("unexpected diagnostics %v", diags)
	}
}

func TestNoFont(t *testing.T) {
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}

	_, err := New(info, &Options{Loader: loader.New()})
	if !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont, got %v", err)
	}

	noFallback := &Options{
		Fallback: func(*font.Descriptor) (*sfnt.Font, error) {
			return nil, nil
		},
	}
	_, err = New(info, noFallback)
	if !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont, got %v", err)
	}
}

func TestDefaultFallback(t *testing.T) {
	info := &Type2Info{
		PostScriptName: "Helvetica-Bold",
		Descriptor:     &font.Descriptor{FontName: "Helvetica-Bold", ForceBold: true},
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Embedding() != Substituted {
		t.Error("font not classified as substituted")
	}
	if f.CIDToGID(65) == 0 {
		t.Error("no glyph for \"A\" in the fallback font")
	}
	diags := f.Diagnostics()
	if len(diags) == 0 || diags[0].Kind != FontSubstituted {
		t.Errorf("unexpected diagnostics %v", diags)
	}
}

func TestCodeToCID(t *testing.T) {
	sub := ttFont(100, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4}),
	})

	unicodeOnly := &cmap.File{
		Name:           "Broken",
		CodeSpaceRange: cmap.Simple,
		UnicodeSingles: []cmap.UnicodeSingle{
			{Code: []byte{0x01}, Value: "AB"},
			{Code: []byte{0x02}, Value: ""},
		},
	}
	withCIDs := &cmap.File{
		Name:           "Normal",
		CodeSpaceRange: cmap.Simple,
		CIDSingles: []cmap.Single{
			{Code: []byte{0x01}, Value: 7},
		},
		UnicodeSingles: []cmap.UnicodeSingle{
			{Code: []byte{0x01}, Value: "A"},
		},
	}

	cases := []struct {
		name string
		enc  *cmap.File
		code cmap.Code
		want cid.CID
	}{
		{"no encoding", nil, 1, 1},
		{"unicode only", unicodeOnly, 1, 'A'},
		{"unicode only, empty text", unicodeOnly, 2, 2},
		{"unicode only, unmapped", unicodeOnly, 3, 3},
		{"with CIDs", withCIDs, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := &Type2Info{
				PostScriptName: "Test",
				Encoding:       c.enc,
				CIDToGID:       &cidtogid.Mapping{Identity: true},
			}
			f, err := New(info, substitute(sub))
			if err != nil {
				t.Fatal(err)
			}
			if got := f.CodeToCID(c.code); got != c.want {
				t.Errorf("got CID %d, want %d", got, c.want)
			}
			if got := f.CodeToGID(c.code); got != glyph.ID(c.want) {
				t.Errorf("got GID %d, want %d", got, c.want)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	sub := ttFont(4, nil)
	sub.UnitsPerEm = 2048
	sub.Ascent = 1600
	sub.Descent = -448
	widths := sub.Outlines.(*glyf.Outlines).Widths
	widths[0] = 512
	widths[1] = 1024
	widths[2] = 2048

	info := &Type2Info{
		PostScriptName: "Test",
		CIDToGID:       &cidtogid.Mapping{Identity: true},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}

	// Glyph 9 is past the end of the font and gets the notdef width.
	for code, want := range map[cmap.Code]float64{0: 250, 1: 500, 2: 1000, 9: 250} {
		if got := f.Width(code); got != want {
			t.Errorf("width of %d: got %g, want %g", code, got, want)
		}
	}
	if gid := f.CodeToGID(9); gid != 9 {
		t.Errorf("got GID %d, want 9", gid)
	}
	if got := f.Height(1); got != 1 {
		t.Errorf("height: got %g, want 1", got)
	}
	if d := cmp.Diff(matrix.Scale(0.001, 0.001), f.FontMatrix()); d != "" {
		t.Errorf("font matrix (-want +got):\n%s", d)
	}
}

func TestMetrics1000(t *testing.T) {
	sub := ttFont(2, nil)
	sub.Ascent = 800
	sub.Descent = -200
	sub.Outlines.(*glyf.Outlines).Widths[1] = 333

	info := &Type2Info{
		PostScriptName: "Test",
		CIDToGID:       &cidtogid.Mapping{Identity: true},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Width(1); got != 333 {
		t.Errorf("width: got %g, want 333", got)
	}
	if got := f.Height(1); got != 1 {
		t.Errorf("height: got %g, want 1", got)
	}
}

func TestConcurrentResolve(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4, 'B': 5}),
	})
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}

	want := make([]glyph.ID, 256)
	for i := range want {
		want[i] = f.CIDToGID(cid.CID(i))
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				if got := f.CIDToGID(cid.CID(i)); got != want[i] {
					t.Errorf("CID %d: got GID %d, want %d", i, got, want[i])
				}
			}
		}()
	}
	wg.Wait()
}

func TestText(t *testing.T) {
	sub := ttFont(20, sfntcmap.Table{
		windowsBMP: encFormat4(map[uint16]glyph.ID{'A': 4}),
	})
	info := &Type2Info{
		PostScriptName: "Missing",
		CIDToGID:       &cidtogid.Mapping{},
	}
	f, err := New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	for cidVal, want := range map[cid.CID]string{65: "A", 0xAE: "\uFB01", 0: "", 1000: ""} {
		if got := f.Text(cidVal); got != want {
			t.Errorf("CID %d: got %q, want %q", cidVal, got, want)
		}
	}

	info.CIDToGID = &cidtogid.Mapping{Identity: true}
	f, err = New(info, substitute(sub))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Text(65); got != "" {
		t.Errorf("identity mapping: got %q", got)
	}
}
