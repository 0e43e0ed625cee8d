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

// Package cidtogid implements the CIDToGIDMap of CIDFontType2 fonts.
//
// A CIDToGIDMap is either the name /Identity, or a stream of big-endian
// 16-bit glyph IDs, one for each CID starting from CID 0.
//
// See section 9.7.4.2 of ISO 32000-2:2020.
package cidtogid

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/cidglyph/pdf"
)

// Decode converts the data of a CIDToGIDMap stream into a table of glyph
// IDs.  Entry i of the result is the glyph ID for CID i.  A trailing odd
// byte is ignored.
func Decode(data []byte) []glyph.ID {
	res := make([]glyph.ID, len(data)/2)
	for i := range res {
		res[i] = glyph.ID(data[2*i])<<8 | glyph.ID(data[2*i+1])
	}
	return res
}

// Read reads the decoded data of a CIDToGIDMap stream from r and converts it
// into a table of glyph IDs.
func Read(r io.Reader) ([]glyph.ID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data), nil
}

// Encode converts a table of glyph IDs into the binary CIDToGIDMap format.
func Encode(table []glyph.ID) []byte {
	res := make([]byte, 2*len(table))
	for i, gid := range table {
		res[2*i] = byte(gid >> 8)
		res[2*i+1] = byte(gid)
	}
	return res
}

// Mapping is the interpreted value of a CIDToGIDMap entry.
//
// At most one of Identity and Table is set.  The zero value means that the
// font dictionary had no CIDToGIDMap entry.
type Mapping struct {
	// Identity is true if the map was given as the name /Identity.
	Identity bool

	// Table is the explicit map from CIDs to glyph IDs.
	Table []glyph.ID
}

// IsExplicit reports whether the font dictionary declared a mapping.
func (m *Mapping) IsExplicit() bool {
	return m != nil && (m.Identity || m.Table != nil)
}

// Lookup returns the glyph ID for the given CID, and whether the mapping had
// an answer.  For an identity mapping, cid itself is returned, except that
// CIDs which do not fit into a glyph ID map to glyph 0.  For a table, CIDs
// past the end of the table map to glyph 0.  If no mapping is declared, ok
// is false.
func (m *Mapping) Lookup(cid uint32) (gid glyph.ID, ok bool) {
	switch {
	case m == nil:
		return 0, false
	case m.Identity:
		if cid > 0xFFFF {
			return 0, true
		}
		return glyph.ID(cid), true
	case m.Table != nil:
		if uint64(cid) < uint64(len(m.Table)) {
			return m.Table[cid], true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Extract interprets the CIDToGIDMap entry of a CIDFont dictionary.
//
// A missing entry gives the zero Mapping.  If the stream data cannot be read
// or decoded, the zero Mapping is returned together with the error; callers
// normally carry on as if the entry was missing.
func Extract(r pdf.Getter, obj pdf.Object) (*Mapping, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return &Mapping{}, pdf.Wrap(err, "CIDToGIDMap")
	}

	switch obj := obj.(type) {
	case nil:
		return &Mapping{}, nil
	case pdf.Name:
		if obj != "Identity" {
			return &Mapping{}, &pdf.MalformedFileError{
				Err: fmt.Errorf("unsupported CIDToGIDMap %q", obj),
			}
		}
		return &Mapping{Identity: true}, nil
	case *pdf.Stream:
		in, err := pdf.DecodeStream(r, obj, 0)
		if err != nil {
			return &Mapping{}, pdf.Wrap(err, "CIDToGIDMap")
		}
		table, err := Read(in)
		if err != nil {
			return &Mapping{}, pdf.Wrap(err, "CIDToGIDMap")
		}
		return &Mapping{Table: table}, nil
	default:
		return &Mapping{}, &pdf.MalformedFileError{
			Err: errors.New("invalid CIDToGIDMap"),
			Loc: []string{"CIDToGIDMap " + pdf.Format(obj)},
		}
	}
}

// Embed writes the mapping to w and returns the value for the CIDToGIDMap
// entry of a CIDFont dictionary.  For a mapping which declares nothing, the
// result is nil.
func Embed(w pdf.Putter, m *Mapping) (pdf.Object, error) {
	switch {
	case m == nil:
		return nil, nil
	case m.Identity:
		return pdf.Name("Identity"), nil
	case m.Table == nil:
		return nil, nil
	}

	ref := w.Alloc()
	stm, err := w.OpenStream(ref, nil,
		pdf.FilterCompress{
			"Predictor": pdf.Integer(12),
			"Columns":   pdf.Integer(2),
		})
	if err != nil {
		return nil, err
	}
	_, err = stm.Write(Encode(m.Table))
	if err != nil {
		return nil, err
	}
	err = stm.Close()
	if err != nil {
		return nil, err
	}
	return ref, nil
}
