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

package cmap

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf16"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/cidglyph/pdf"
)

// ToUnicodeFile represents the contents of a ToUnicode CMap.
// Such a CMap maps character codes to unicode strings.
type ToUnicodeFile struct {
	CodeSpaceRange

	Singles []UnicodeSingle
	Ranges  []UnicodeRange

	Parent *ToUnicodeFile
}

// UnicodeSingle specifies that character code Code represents the given
// text.
type UnicodeSingle struct {
	Code  []byte
	Value string
}

func (s UnicodeSingle) String() string {
	return fmt.Sprintf("% 02x: %q", s.Code, s.Value)
}

// UnicodeRange describes a range of character codes.  If Values has a
// single element, the last character of the text is incremented for every
// code in the range.  Otherwise, Values lists the text for every code.
type UnicodeRange struct {
	First  []byte
	Last   []byte
	Values []string
}

func (r UnicodeRange) String() string {
	return fmt.Sprintf("% 02x-% 02x: %q", r.First, r.Last, r.Values)
}

// brokenReplacement is used for array entries in a bfrange which cannot be
// decoded.
const brokenReplacement = "�"

// ExtractToUnicode reads a ToUnicode CMap from a PDF file.
// If obj is null, the function returns nil without an error.
func ExtractToUnicode(r pdf.Getter, obj pdf.Object) (*ToUnicodeFile, error) {
	return extractToUnicodeDepth(r, obj, 0)
}

func extractToUnicodeDepth(r pdf.Getter, obj pdf.Object, depth int) (*ToUnicodeFile, error) {
	if depth > maxParentDepth {
		return nil, pdf.Errorf("UseCMap chain too long")
	}

	stm, err := pdf.GetStream(r, obj)
	if stm == nil || err != nil {
		return nil, err
	}
	_, err = pdf.GetDictTyped(r, stm.Dict, "CMap")
	if err != nil {
		return nil, err
	}
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	res, err := ReadToUnicode(body)
	if err != nil {
		return nil, err
	}

	if parent := stm.Dict["UseCMap"]; parent != nil {
		res.Parent, err = extractToUnicodeDepth(r, parent, depth+1)
		if pdf.IsReadError(err) {
			return nil, err
		}
	}
	return res, nil
}

// ReadToUnicode reads a ToUnicode CMap.
func ReadToUnicode(r io.Reader) (*ToUnicodeFile, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, &pdf.MalformedFileError{Err: err}
	}

	if tp, _ := raw["CMapType"].(postscript.Integer); !(tp == 0 || tp == 2) {
		return nil, pdf.Errorf("invalid CMapType: %d", tp)
	}
	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, pdf.Errorf("unsupported CMap format")
	}

	res := &ToUnicodeFile{}
	for _, entry := range codeMap.CodeSpaceRanges {
		r := Range{Low: entry.Low, High: entry.High}
		if r.isValid() {
			res.CodeSpaceRange = append(res.CodeSpaceRange, r)
		}
	}
	res.Singles, res.Ranges = readUnicode(codeMap)

	return res, nil
}

// Lookup returns the text for the given character code.
func (info *ToUnicodeFile) Lookup(code Code) (string, bool) {
	var csr CodeSpaceRange
	for f := info; f != nil; f = f.Parent {
		if len(f.CodeSpaceRange) > 0 {
			csr = f.CodeSpaceRange
			break
		}
	}

	s := csr.Bytes(code)
	for f := info; f != nil; f = f.Parent {
		if text, ok := lookupUnicode(f.Singles, f.Ranges, s); ok {
			return text, true
		}
	}
	return "", false
}

// IsEmpty returns true if the ToUnicodeFile does not contain any mappings.
func (info *ToUnicodeFile) IsEmpty() bool {
	return info == nil ||
		len(info.Singles) == 0 && len(info.Ranges) == 0 && info.Parent.IsEmpty()
}

func readUnicode(codeMap *postscript.CMapInfo) ([]UnicodeSingle, []UnicodeRange) {
	var singles []UnicodeSingle
	var ranges []UnicodeRange

	for _, entry := range codeMap.BfChars {
		if len(entry.Src) == 0 {
			continue
		}
		s, err := toString(entry.Dst)
		if err != nil {
			continue
		}
		singles = append(singles, UnicodeSingle{Code: entry.Src, Value: s})
	}

	for _, entry := range codeMap.BfRanges {
		if !(Range{Low: entry.Low, High: entry.High}).isValid() {
			continue
		}
		switch dst := entry.Dst.(type) {
		case postscript.String:
			s, err := toString(dst)
			if err != nil {
				continue
			}
			ranges = append(ranges, UnicodeRange{
				First:  entry.Low,
				Last:   entry.High,
				Values: []string{s},
			})
		case postscript.Array:
			values := make([]string, 0, len(dst))
			for _, v := range dst {
				s, err := toString(v)
				if err != nil {
					s = brokenReplacement
				}
				values = append(values, s)
			}
			ranges = append(ranges, UnicodeRange{
				First:  entry.Low,
				Last:   entry.High,
				Values: values,
			})
		}
	}

	return singles, ranges
}

func lookupUnicode(singles []UnicodeSingle, ranges []UnicodeRange, s []byte) (string, bool) {
	for _, single := range singles {
		if bytes.Equal(single.Code, s) {
			return single.Value, true
		}
	}
	for _, r := range ranges {
		idx, ok := rangeIndex(r.First, r.Last, s)
		if !ok {
			continue
		}
		switch {
		case len(r.Values) == 1:
			return nextString(r.Values[0], idx), true
		case idx < len(r.Values):
			return r.Values[idx], true
		}
	}
	return "", false
}

func nextString(s string, inc int) string {
	rr := []rune(s)
	if len(rr) == 0 {
		return ""
	}
	rr[len(rr)-1] += rune(inc)
	return string(rr)
}

// toString decodes a UTF-16BE string from a CMap file.
func toString(obj postscript.Object) (string, error) {
	dst, ok := obj.(postscript.String)
	if !ok || len(dst)%2 != 0 {
		return "", pdf.Errorf("invalid ToUnicode CMap")
	}
	buf := make([]uint16, 0, len(dst)/2)
	for i := 0; i < len(dst); i += 2 {
		buf = append(buf, uint16(dst[i])<<8|uint16(dst[i+1]))
	}
	return string(utf16.Decode(buf)), nil
}
