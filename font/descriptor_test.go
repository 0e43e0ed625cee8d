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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/cidglyph/pdf"
)

func TestRoundTrip(t *testing.T) {
	fd1 := &Descriptor{
		FontName:     "Test Name",
		FontFamily:   "Test Family",
		FontStretch:  os2.WidthCondensed,
		FontWeight:   os2.WeightBold,
		IsFixedPitch: true,
		IsSerif:      true,
		IsSymbolic:   true,
		IsScript:     true,
		IsItalic:     true,
		IsAllCap:     true,
		IsSmallCap:   true,
		ForceBold:    true,
		ItalicAngle:  50,
		Ascent:       60,
		Descent:      -70,
		CapHeight:    90,
		StemV:        110,
		MissingWidth: 150,
	}

	data := pdf.NewData()
	fdRef := data.Alloc()
	err := data.Put(fdRef, fd1.AsDict())
	if err != nil {
		t.Fatal(err)
	}

	fd2, err := ExtractDescriptor(data, fdRef)
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff(fd1, fd2); d != "" {
		t.Errorf("diff: %s", d)
	}
}

func TestMissingStemV(t *testing.T) {
	dict := pdf.Dict{
		"Type":     pdf.Name("FontDescriptor"),
		"FontName": pdf.Name("X"),
		"Flags":    pdf.Integer(FlagNonsymbolic),
	}
	fd, err := ExtractDescriptor(nil, dict)
	if err != nil {
		t.Fatal(err)
	}
	if fd.StemV != -1 {
		t.Errorf("StemV = %g, want -1", fd.StemV)
	}
	if fd.IsSymbolic {
		t.Error("font wrongly marked as symbolic")
	}
}

func TestFlags(t *testing.T) {
	fd := &Descriptor{IsSymbolic: true, IsItalic: true}
	if got, want := fd.Flags(), FlagSymbolic|FlagItalic; got != want {
		t.Errorf("got %032b, want %032b", got, want)
	}

	var fd2 Descriptor
	fd2.SetFlags(fd.Flags())
	if d := cmp.Diff(fd, &fd2); d != "" {
		t.Errorf("diff: %s", d)
	}
}

func TestIsBold(t *testing.T) {
	cases := []struct {
		fd   Descriptor
		want bool
	}{
		{Descriptor{}, false},
		{Descriptor{FontWeight: os2.WeightNormal}, false},
		{Descriptor{FontWeight: os2.WeightMedium}, false},
		{Descriptor{FontWeight: os2.Weight(600)}, true},
		{Descriptor{FontWeight: os2.WeightExtraBold}, true},
		{Descriptor{ForceBold: true}, true},
	}
	for i, c := range cases {
		if got := c.fd.IsBold(); got != c.want {
			t.Errorf("%d: got %t, want %t", i, got, c.want)
		}
	}
}

func TestWrongDictType(t *testing.T) {
	_, err := ExtractDescriptor(nil, pdf.Dict{"Type": pdf.Name("Font")})
	if !pdf.IsMalformed(err) {
		t.Errorf("expected malformed file error, got %v", err)
	}
}
