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
	"math"

	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/cidglyph/pdf"
)

// Descriptor represents a PDF font descriptor.
//
// See section 9.8.1 of ISO 32000-2:2020.
type Descriptor struct {
	FontName    string     // required
	FontFamily  string     // optional
	FontStretch os2.Width  // optional
	FontWeight  os2.Weight // optional

	IsFixedPitch bool // flag
	IsSerif      bool // flag
	IsSymbolic   bool // flag
	IsScript     bool // flag
	IsItalic     bool // flag
	IsAllCap     bool // flag
	IsSmallCap   bool // flag
	ForceBold    bool // flag

	ItalicAngle  float64 // required
	Ascent       float64 // required
	Descent      float64 // required
	CapHeight    float64 // required, except if no latin chars
	StemV        float64 // required (-1 = missing)
	MissingWidth float64 // optional (default: 0)
}

var stretchNames = map[pdf.Name]os2.Width{
	"UltraCondensed": os2.WidthUltraCondensed,
	"ExtraCondensed": os2.WidthExtraCondensed,
	"Condensed":      os2.WidthCondensed,
	"SemiCondensed":  os2.WidthSemiCondensed,
	"Normal":         os2.WidthNormal,
	"SemiExpanded":   os2.WidthSemiExpanded,
	"Expanded":       os2.WidthExpanded,
	"ExtraExpanded":  os2.WidthExtraExpanded,
	"UltraExpanded":  os2.WidthUltraExpanded,
}

// ExtractDescriptor reads a font descriptor dictionary.
// If obj is null, the function returns nil without an error.
func ExtractDescriptor(r pdf.Getter, obj pdf.Object) (*Descriptor, error) {
	dict, err := pdf.GetDictTyped(r, obj, "FontDescriptor")
	if dict == nil || err != nil {
		return nil, pdf.Wrap(err, "FontDescriptor")
	}

	res := &Descriptor{}

	fontName, err := pdf.GetName(r, dict["FontName"])
	if err != nil {
		return nil, pdf.Wrap(err, "FontName")
	}
	res.FontName = string(fontName)

	fontFamily, err := pdf.GetString(r, dict["FontFamily"])
	if err != nil {
		return nil, pdf.Wrap(err, "FontFamily")
	}
	res.FontFamily = string(fontFamily)

	// A broken /FontStretch entry is ignored.
	fontStretch, _ := pdf.GetName(r, dict["FontStretch"])
	res.FontStretch = stretchNames[fontStretch]

	fontWeight, err := pdf.GetNumber(r, dict["FontWeight"])
	if err != nil {
		return nil, pdf.Wrap(err, "FontWeight")
	}
	if fontWeight > 0 && fontWeight < 1000 {
		res.FontWeight = os2.Weight(math.Round(float64(fontWeight))).Rounded()
	}

	flags, err := pdf.GetInteger(r, dict["Flags"])
	if err != nil {
		return nil, pdf.Wrap(err, "Flags")
	}
	res.SetFlags(Flags(flags))

	numbers := []struct {
		key pdf.Name
		ptr *float64
	}{
		{"ItalicAngle", &res.ItalicAngle},
		{"Ascent", &res.Ascent},
		{"Descent", &res.Descent},
		{"CapHeight", &res.CapHeight},
		{"MissingWidth", &res.MissingWidth},
	}
	for _, n := range numbers {
		x, err := pdf.GetNumber(r, dict[n.key])
		if err != nil {
			return nil, pdf.Wrap(err, string(n.key))
		}
		*n.ptr = float64(x)
	}

	res.StemV = -1
	if stemVObj, ok := dict["StemV"]; ok {
		stemV, err := pdf.GetNumber(r, stemVObj)
		if err != nil {
			return nil, pdf.Wrap(err, "StemV")
		}
		res.StemV = float64(stemV)
	}

	return res, nil
}

// AsDict returns the font descriptor as a PDF dictionary.
func (d *Descriptor) AsDict() pdf.Dict {
	dict := pdf.Dict{
		"Type":        pdf.Name("FontDescriptor"),
		"Flags":       pdf.Integer(d.Flags()),
		"ItalicAngle": pdf.Number(d.ItalicAngle),
	}
	if d.FontName != "" {
		dict["FontName"] = pdf.Name(d.FontName)
	}
	if d.FontFamily != "" {
		dict["FontFamily"] = pdf.String(d.FontFamily)
	}
	for name, w := range stretchNames {
		if w == d.FontStretch {
			dict["FontStretch"] = name
		}
	}
	if d.FontWeight != 0 {
		dict["FontWeight"] = pdf.Integer(d.FontWeight.Rounded())
	}
	if d.Ascent != 0 {
		dict["Ascent"] = pdf.Number(d.Ascent)
	}
	if d.Descent != 0 {
		dict["Descent"] = pdf.Number(d.Descent)
	}
	if d.CapHeight != 0 {
		dict["CapHeight"] = pdf.Number(d.CapHeight)
	}
	if d.StemV >= 0 {
		dict["StemV"] = pdf.Number(d.StemV)
	}
	if d.MissingWidth != 0 {
		dict["MissingWidth"] = pdf.Number(d.MissingWidth)
	}
	return dict
}

// boldWeight is the smallest weight considered bold (600, semi-bold).
const boldWeight os2.Weight = 600

// IsBold reports whether the descriptor describes a bold font, either by
// weight or through the ForceBold flag.
func (d *Descriptor) IsBold() bool {
	return d.ForceBold || d.FontWeight >= boldWeight
}
