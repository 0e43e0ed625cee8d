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

package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "goregular.ttf")
	err := os.WriteFile(fname, goregular.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	l := New()
	fontMap := "# test font map\n" +
		"% another comment\n" +
		"GoRegular sfnt " + fname + "\n" +
		"Times-Roman type1 /nonexistent/times.pfb\n"
	err = l.AddFontMap(strings.NewReader(fontMap))
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff([]string{"GoRegular"}, l.Names()); d != "" {
		t.Errorf("names (-want +got):\n%s", d)
	}

	font, err := l.Load("GoRegular")
	if err != nil {
		t.Fatal(err)
	}
	if font.NumGlyphs() == 0 {
		t.Error("font has no glyphs")
	}
	if font.UnitsPerEm != 2048 {
		t.Errorf("unexpected unitsPerEm %d", font.UnitsPerEm)
	}
}

func TestUnknownFont(t *testing.T) {
	l := New()
	_, err := l.Load("Missing")
	if !errors.Is(err, ErrUnknownFont) {
		t.Errorf("expected ErrUnknownFont, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestAddFontMapErrors(t *testing.T) {
	for _, line := range []string{
		"OnlyTwo sfnt",
		"Name bitmap /some/path",
	} {
		l := New()
		err := l.AddFontMap(strings.NewReader(line + "\n"))
		if err == nil {
			t.Errorf("%q: missing error", line)
		}
	}
}

func TestAddFontOverwrite(t *testing.T) {
	l := New()
	l.AddFont("X", "/a")
	l.AddFont("X", "/b")
	_, err := l.Open("X")
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) || pathErr.Path != "/b" {
		t.Errorf("expected error for /b, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	eot := make([]byte, 40)
	eot[eotMagicOffset] = 0x4C
	eot[eotMagicOffset+1] = 0x50

	cases := []struct {
		name string
		data []byte
		want fileFormat
	}{
		{"TrueType", goregular.TTF, formatSFNT},
		{"OpenType", []byte("OTTO\x00\x00"), formatSFNT},
		{"WOFF", []byte("wOFF\x00\x01\x00\x00"), formatWOFF},
		{"WOFF2", []byte("wOF2\x00\x01\x00\x00"), formatWOFF2},
		{"EOT", eot, formatEOT},
		{"short", []byte("ab"), formatUnknown},
		{"garbage", []byte(strings.Repeat("x", 64)), formatUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := detectFormat(c.data); got != c.want {
				t.Errorf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestParseBroken(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("wOF2 definitely not a font"),
		[]byte("wOFF"),
		[]byte("garbage"),
	} {
		_, err := Parse(data)
		if err == nil {
			t.Errorf("%q: missing error", data)
		}
	}
}
