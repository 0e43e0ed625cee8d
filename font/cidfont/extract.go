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
	"fmt"
	"io"
	"regexp"

	"seehuhn.de/go/cidglyph/font"
	"seehuhn.de/go/cidglyph/font/cidtogid"
	"seehuhn.de/go/cidglyph/font/cmap"
	"seehuhn.de/go/cidglyph/pdf"
)

// Type2Info holds the information from the font dictionary and CIDFont
// dictionary of a Type 2 (TrueType-based) CIDFont which is needed to map
// character codes to glyphs.
type Type2Info struct {
	// Ref is the reference to the font dictionary in the PDF file.
	Ref pdf.Reference

	// PostScriptName is the PostScript name of the font
	// (without any subset tag).
	PostScriptName string

	// SubsetTag is non-empty if the font has been subsetted.
	SubsetTag string

	// Descriptor is the font descriptor.
	Descriptor *font.Descriptor

	// IsSymbolic is the value of the symbolic flag in the font descriptor.
	IsSymbolic bool

	// Encoding maps character codes to CIDs.  If this is nil, codes are
	// used as CIDs directly.
	Encoding *cmap.File

	// ToUnicode (optional) maps character codes to text.
	ToUnicode *cmap.ToUnicodeFile

	// FontFile holds the uncompressed data of the embedded font program.
	// This is nil if the font is not embedded.
	FontFile []byte

	// IsOpenType is true if the font program was embedded as FontFile3
	// with subtype OpenType.
	IsOpenType bool

	// CIDToGID is the interpreted CIDToGIDMap entry.  This is never nil.
	CIDToGID *cidtogid.Mapping

	// CIDToGIDErr records why the CIDToGIDMap could not be read.
	// In this case CIDToGID is the zero mapping.
	CIDToGIDErr error
}

var subsetTagRegexp = regexp.MustCompile(`^([A-Z]{6})\+(.*)$`)

// ExtractType2 reads the information about a Type 0 font with a
// CIDFontType2 descendant from a PDF file.
//
// Problems with optional entries are tolerated where possible.  In
// particular, an unreadable CIDToGIDMap is recorded in the CIDToGIDErr
// field instead of making the function fail.
func ExtractType2(r pdf.Getter, obj pdf.Object) (*Type2Info, error) {
	fontDict, err := pdf.GetDictTyped(r, obj, "Font")
	if err != nil {
		return nil, err
	} else if fontDict == nil {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing font dictionary"),
		}
	}
	subtype, err := pdf.GetName(r, fontDict["Subtype"])
	if err != nil {
		return nil, err
	}
	if subtype != "" && subtype != "Type0" {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("expected font subtype Type0, got %q", subtype),
		}
	}

	a, err := pdf.GetArray(r, fontDict["DescendantFonts"])
	if err != nil {
		return nil, err
	} else if len(a) != 1 {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("invalid DescendantFonts array"),
		}
	}
	cidFontDict, err := pdf.GetDictTyped(r, a[0], "Font")
	if err != nil {
		return nil, err
	} else if cidFontDict == nil {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing CIDFont dictionary"),
		}
	}
	subtype, err = pdf.GetName(r, cidFontDict["Subtype"])
	if err != nil {
		return nil, err
	} else if subtype != "CIDFontType2" {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("expected CIDFontType2, got %q", subtype),
		}
	}

	info := &Type2Info{}
	info.Ref, _ = obj.(pdf.Reference)

	// fields in the font dictionary

	info.Encoding, err = cmap.Extract(r, fontDict["Encoding"])
	if errors.Is(err, cmap.ErrUnsupported) {
		info.Encoding = nil
	} else if pdf.IsReadError(err) {
		return nil, err
	}

	info.ToUnicode, err = cmap.ExtractToUnicode(r, fontDict["ToUnicode"])
	if pdf.IsReadError(err) {
		return nil, err
	}

	// fields in the CIDFont dictionary

	baseFont, err := pdf.GetName(r, cidFontDict["BaseFont"])
	if err != nil {
		return nil, err
	}
	if m := subsetTagRegexp.FindStringSubmatch(string(baseFont)); m != nil {
		info.SubsetTag = m[1]
		info.PostScriptName = m[2]
	} else {
		info.PostScriptName = string(baseFont)
	}

	fdDict, err := pdf.GetDictTyped(r, cidFontDict["FontDescriptor"], "FontDescriptor")
	if pdf.IsReadError(err) {
		return nil, err
	}
	info.Descriptor, _ = font.ExtractDescriptor(r, fdDict)
	if info.Descriptor == nil { // only possible for invalid PDF files
		info.Descriptor = &font.Descriptor{
			FontName: info.PostScriptName,
		}
	}
	info.IsSymbolic = info.Descriptor.IsSymbolic

	info.CIDToGID, info.CIDToGIDErr = cidtogid.Extract(r, cidFontDict["CIDToGIDMap"])

	info.FontFile, info.IsOpenType, err = readFontFile(r, fdDict)
	if err != nil {
		return nil, err
	}

	return info, nil
}

// readFontFile returns the data of the embedded font program, if any.
func readFontFile(r pdf.Getter, fd pdf.Dict) ([]byte, bool, error) {
	s, err := pdf.GetStream(r, fd["FontFile2"])
	if pdf.IsReadError(err) {
		return nil, false, err
	}
	if s != nil {
		data, err := readStream(r, s)
		return data, false, pdf.Wrap(err, "FontFile2")
	}

	s, err = pdf.GetStream(r, fd["FontFile3"])
	if pdf.IsReadError(err) {
		return nil, false, err
	}
	if s == nil {
		return nil, false, nil
	}
	subType, _ := pdf.GetName(r, s.Dict["Subtype"])
	if subType != "OpenType" {
		return nil, false, nil
	}
	data, err := readStream(r, s)
	return data, true, pdf.Wrap(err, "FontFile3")
}

func readStream(r pdf.Getter, s *pdf.Stream) ([]byte, error) {
	body, err := pdf.DecodeStream(r, s, 0)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(body)
}
