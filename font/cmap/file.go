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

// Package cmap reads the CMaps used by composite PDF fonts.
//
// An encoding CMap maps character codes to CIDs; a ToUnicode CMap maps
// character codes to text.  Some PDF producers put the text mappings
// (bfchar and bfrange sections) into the encoding CMap instead, so [File]
// keeps these, too.
//
// References:
//   - section 9.7.5 (CMaps) in ISO 32000-2:2020
//   - https://adobe-type-tools.github.io/font-tech-notes/pdfs/5014.CIDFont_Spec.pdf
//   - https://adobe-type-tools.github.io/font-tech-notes/pdfs/5099.CMapResources.pdf
package cmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/postscript"
	"seehuhn.de/go/postscript/cid"

	"seehuhn.de/go/cidglyph/pdf"
)

// File represents an encoding CMap of a composite font.
//
// This structure closely resembles the structure of a CMap file.
type File struct {
	Name  pdf.Name
	ROS   *CIDSystemInfo
	WMode WritingMode

	CodeSpaceRange

	CIDSingles    []Single
	CIDRanges     []CIDRange
	NotdefSingles []Single
	NotdefRanges  []CIDRange

	UnicodeSingles []UnicodeSingle
	UnicodeRanges  []UnicodeRange

	Parent *File // This corresponds to the UseCMap entry.
}

// CIDSystemInfo describes a character collection.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// WritingMode is the writing mode of a CMap (horizontal or vertical).
type WritingMode int

const (
	// Horizontal indicates horizontal writing mode.
	Horizontal WritingMode = 0

	// Vertical indicates vertical writing mode.
	Vertical WritingMode = 1
)

func (m WritingMode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("WritingMode(%d)", int(m))
	}
}

// Single specifies that character code Code represents the given CID.
type Single struct {
	Code  []byte
	Value cid.CID
}

// CIDRange describes a range of character codes with consecutive CIDs.
// Value is the CID of the first code in the range.
type CIDRange struct {
	First []byte
	Last  []byte
	Value cid.CID
}

func (r CIDRange) String() string {
	return fmt.Sprintf("% 02x-% 02x: %d", r.First, r.Last, r.Value)
}

// ErrUnsupported is returned when a predefined CMap other than Identity-H
// or Identity-V is requested.
var ErrUnsupported = errors.New("cmap: unsupported predefined CMap")

// maxParentDepth limits the length of UseCMap chains.
const maxParentDepth = 8

// Predefined returns the predefined CMap with the given name.
// Only the Identity CMaps are available.
func Predefined(name string) (*File, error) {
	var wMode WritingMode
	switch name {
	case "Identity-H":
		wMode = Horizontal
	case "Identity-V":
		wMode = Vertical
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	return &File{
		Name: pdf.Name(name),
		ROS: &CIDSystemInfo{
			Registry: "Adobe",
			Ordering: "Identity",
		},
		WMode:          wMode,
		CodeSpaceRange: UCS2,
		CIDRanges: []CIDRange{
			{First: []byte{0x00, 0x00}, Last: []byte{0xFF, 0xFF}, Value: 0},
		},
	}, nil
}

// Extract reads an encoding CMap from a PDF file.
// The argument must be the name of a predefined CMap or a CMap stream.
func Extract(r pdf.Getter, obj pdf.Object) (*File, error) {
	return extractDepth(r, obj, 0)
}

func extractDepth(r pdf.Getter, obj pdf.Object, depth int) (*File, error) {
	if depth > maxParentDepth {
		return nil, pdf.Errorf("UseCMap chain too long")
	}

	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	switch obj := obj.(type) {
	case pdf.Name:
		return Predefined(string(obj))

	case *pdf.Stream:
		_, err := pdf.GetDictTyped(r, obj.Dict, "CMap")
		if err != nil {
			return nil, err
		}
		body, err := pdf.DecodeStream(r, obj, 0)
		if err != nil {
			return nil, err
		}
		res, parent, err := read(body)
		if err != nil {
			return nil, err
		}

		if name, _ := pdf.GetName(r, obj.Dict["CMapName"]); name != "" {
			res.Name = name
		}
		if x, _ := pdf.GetInteger(r, obj.Dict["WMode"]); x == 1 {
			res.WMode = Vertical
		}
		if p := obj.Dict["UseCMap"]; p != nil {
			parent = p
		}
		if parent != nil {
			res.Parent, err = extractDepth(r, parent, depth+1)
			if pdf.IsReadError(err) && !errors.Is(err, ErrUnsupported) {
				return nil, err
			}
		}
		return res, nil

	default:
		return nil, pdf.Errorf("invalid CMap object type: %T", obj)
	}
}

// Read reads an encoding CMap from a CMap file.
// A UseCMap operator is followed only for the Identity CMaps.
func Read(r io.Reader) (*File, error) {
	res, parent, err := read(r)
	if err != nil {
		return nil, err
	}
	if name, ok := parent.(pdf.Name); ok {
		res.Parent, _ = Predefined(string(name))
	}
	return res, nil
}

func read(r io.Reader) (*File, pdf.Object, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, nil, &pdf.MalformedFileError{Err: err}
	}

	if tp, _ := raw["CMapType"].(postscript.Integer); !(tp == 0 || tp == 1) {
		return nil, nil, pdf.Errorf("invalid CMapType: %d", tp)
	}
	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, nil, pdf.Errorf("unsupported CMap format")
	}

	res := &File{}
	var parent pdf.Object

	if name, _ := raw["CMapName"].(postscript.Name); name != "" {
		res.Name = pdf.Name(name)
	}
	if wMode, _ := raw["WMode"].(postscript.Integer); wMode == 1 {
		res.WMode = Vertical
	}
	if rosDict, _ := raw["CIDSystemInfo"].(postscript.Dict); rosDict != nil {
		ros := &CIDSystemInfo{}
		registry, _ := rosDict["Registry"].(postscript.String)
		ros.Registry = string(registry)
		ordering, _ := rosDict["Ordering"].(postscript.String)
		ros.Ordering = string(ordering)
		supplement, _ := rosDict["Supplement"].(postscript.Integer)
		ros.Supplement = int(supplement)
		res.ROS = ros
	}
	if codeMap.UseCMap != "" {
		parent = pdf.Name(codeMap.UseCMap)
	}

	for _, entry := range codeMap.CodeSpaceRanges {
		r := Range{Low: entry.Low, High: entry.High}
		if r.isValid() {
			res.CodeSpaceRange = append(res.CodeSpaceRange, r)
		}
	}

	for _, entry := range codeMap.CidChars {
		if value, ok := toCID(entry.Dst); ok && len(entry.Src) > 0 {
			res.CIDSingles = append(res.CIDSingles, Single{Code: entry.Src, Value: value})
		}
	}
	for _, entry := range codeMap.CidRanges {
		value, ok := toCID(entry.Dst)
		if ok && (Range{Low: entry.Low, High: entry.High}).isValid() {
			res.CIDRanges = append(res.CIDRanges,
				CIDRange{First: entry.Low, Last: entry.High, Value: value})
		}
	}
	for _, entry := range codeMap.NotdefChars {
		if value, ok := toCID(entry.Dst); ok && len(entry.Src) > 0 {
			res.NotdefSingles = append(res.NotdefSingles, Single{Code: entry.Src, Value: value})
		}
	}
	for _, entry := range codeMap.NotdefRanges {
		value, ok := toCID(entry.Dst)
		if ok && (Range{Low: entry.Low, High: entry.High}).isValid() {
			res.NotdefRanges = append(res.NotdefRanges,
				CIDRange{First: entry.Low, Last: entry.High, Value: value})
		}
	}

	res.UnicodeSingles, res.UnicodeRanges = readUnicode(codeMap)

	return res, parent, nil
}

func toCID(obj postscript.Object) (cid.CID, bool) {
	x, ok := obj.(postscript.Integer)
	if !ok || x < 0 || x > 0xFFFF_FFFF {
		return 0, false
	}
	return cid.CID(x), true
}

func (c *File) codeSpace() CodeSpaceRange {
	for f := c; f != nil; f = f.Parent {
		if len(f.CodeSpaceRange) > 0 {
			return f.CodeSpaceRange
		}
	}
	return nil
}

// Decode splits the first character code off s, using the code space of the
// CMap.
func (c *File) Decode(s []byte) (Code, int) {
	return c.codeSpace().Decode(s)
}

// HasCIDMappings reports whether the CMap (or one of its parents) maps any
// character codes to CIDs.
func (c *File) HasCIDMappings() bool {
	for f := c; f != nil; f = f.Parent {
		if len(f.CIDSingles) > 0 || len(f.CIDRanges) > 0 {
			return true
		}
	}
	return false
}

// HasUnicodeMappings reports whether the CMap (or one of its parents)
// contains bfchar or bfrange mappings from character codes to text.
func (c *File) HasUnicodeMappings() bool {
	for f := c; f != nil; f = f.Parent {
		if len(f.UnicodeSingles) > 0 || len(f.UnicodeRanges) > 0 {
			return true
		}
	}
	return false
}

// LookupCID returns the CID for the given character code.
// If the code is not mapped, the notdef mappings are consulted, and if
// these don't cover the code either, CID 0 is returned.
func (c *File) LookupCID(code Code) cid.CID {
	s := c.codeSpace().Bytes(code)
	for f := c; f != nil; f = f.Parent {
		if value, ok := lookupCID(f.CIDSingles, f.CIDRanges, s, true); ok {
			return value
		}
	}
	for f := c; f != nil; f = f.Parent {
		if value, ok := lookupCID(f.NotdefSingles, f.NotdefRanges, s, false); ok {
			return value
		}
	}
	return 0
}

func lookupCID(singles []Single, ranges []CIDRange, s []byte, inc bool) (cid.CID, bool) {
	for _, single := range singles {
		if bytes.Equal(single.Code, s) {
			return single.Value, true
		}
	}
	for _, r := range ranges {
		if idx, ok := rangeIndex(r.First, r.Last, s); ok {
			if !inc {
				return r.Value, true
			}
			return r.Value + cid.CID(idx), true
		}
	}
	return 0, false
}

// ToUnicode returns the text for the character code, as given by the bfchar
// and bfrange sections of the CMap.
func (c *File) ToUnicode(code Code) (string, bool) {
	s := c.codeSpace().Bytes(code)
	for f := c; f != nil; f = f.Parent {
		if text, ok := lookupUnicode(f.UnicodeSingles, f.UnicodeRanges, s); ok {
			return text, true
		}
	}
	return "", false
}
