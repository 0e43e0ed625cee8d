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

package unicmap

import (
	"errors"
	"testing"

	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

func encFormat0(code byte, gid byte) []byte {
	f := &cmap.Format0{}
	f.Data[code] = gid
	return f.Encode(0)
}

func encFormat4(code uint16, gid glyph.ID) []byte {
	return cmap.Format4{code: gid}.Encode(0)
}

func TestSelect(t *testing.T) {
	var (
		unicodeFull = cmap.Key{PlatformID: 0, EncodingID: 4}
		unicodeBMP  = cmap.Key{PlatformID: 0, EncodingID: 3}
		windowsBMP  = cmap.Key{PlatformID: 3, EncodingID: 1}
		windowsSym  = cmap.Key{PlatformID: 3, EncodingID: 0}
		macRoman    = cmap.Key{PlatformID: 1, EncodingID: 0}
		windowsBig5 = cmap.Key{PlatformID: 3, EncodingID: 4}
	)

	cases := []struct {
		name         string
		table        cmap.Table
		wantKey      cmap.Key
		wantFallback bool
	}{
		{
			name: "full before Windows BMP",
			table: cmap.Table{
				windowsBMP:  encFormat4('A', 1),
				unicodeFull: encFormat4('A', 2),
			},
			wantKey: unicodeFull,
		},
		{
			name: "Unicode BMP before Windows BMP",
			table: cmap.Table{
				windowsBMP: encFormat4('A', 1),
				unicodeBMP: encFormat4('A', 2),
			},
			wantKey: unicodeBMP,
		},
		{
			name: "Windows BMP before Symbol",
			table: cmap.Table{
				windowsSym: encFormat4(0xF041, 1),
				windowsBMP: encFormat4('A', 2),
			},
			wantKey: windowsBMP,
		},
		{
			name: "Symbol",
			table: cmap.Table{
				macRoman:   encFormat0('A', 1),
				windowsSym: encFormat4(0xF041, 1),
			},
			wantKey: windowsSym,
		},
		{
			name: "fallback to first subtable",
			table: cmap.Table{
				windowsBig5: encFormat4(0xA440, 3),
				macRoman:    encFormat0('A', 1),
			},
			wantKey:      macRoman,
			wantFallback: true,
		},
		{
			name: "broken preferred subtable skipped",
			table: cmap.Table{
				unicodeFull: {0xFF, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0},
				windowsBMP:  encFormat4('A', 2),
			},
			wantKey: windowsBMP,
		},
		{
			name: "broken fallback subtable skipped",
			table: cmap.Table{
				macRoman:    {0, 0},
				windowsBig5: encFormat4(0xA440, 3),
			},
			wantKey:      windowsBig5,
			wantFallback: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sel, err := Select(c.table)
			if err != nil {
				t.Fatal(err)
			}
			if sel.Key != c.wantKey {
				t.Errorf("key: got %v, want %v", sel.Key, c.wantKey)
			}
			if sel.Fallback != c.wantFallback {
				t.Errorf("fallback: got %t, want %t", sel.Fallback, c.wantFallback)
			}
			if sel.Subtable == nil {
				t.Error("missing subtable")
			}
		})
	}
}

func TestSelectNone(t *testing.T) {
	for _, table := range []cmap.Table{
		nil,
		{},
		{{PlatformID: 3, EncodingID: 1}: {1, 2, 3}},
	} {
		_, err := Select(table)
		if !errors.Is(err, ErrNoSubtable) {
			t.Errorf("%v: got %v, want %v", table, err, ErrNoSubtable)
		}
	}
}

func TestLookup(t *testing.T) {
	table := cmap.Table{
		{PlatformID: 3, EncodingID: 1}: encFormat4('A', 7),
	}
	sel, err := Select(table)
	if err != nil {
		t.Fatal(err)
	}
	if gid := sel.Lookup('A'); gid != 7 {
		t.Errorf("got %d, want 7", gid)
	}
	if gid := sel.Lookup('B'); gid != 0 {
		t.Errorf("got %d, want 0", gid)
	}

	var none *Selection
	if gid := none.Lookup('A'); gid != 0 {
		t.Errorf("nil selection: got %d", gid)
	}
}

func TestPreferredCopy(t *testing.T) {
	keys := Preferred()
	if len(keys) != 4 {
		t.Fatalf("got %d keys, want 4", len(keys))
	}
	first := keys[0]
	keys[0], keys[3] = keys[3], keys[0]

	if got := Preferred()[0]; got != first {
		t.Errorf("priority order changed: got %v, want %v", got, first)
	}

	tab := cmap.Table{
		keys[0]: encFormat4('A', 1),
		first:   encFormat4('A', 2),
	}
	sel, err := Select(tab)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Key != first {
		t.Errorf("selected %v, want %v", sel.Key, first)
	}
}
