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

package pdf

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Filter represents a PDF stream filter which can be used when writing
// streams.
type Filter interface {
	// Info returns the filter name and the decode parameters.
	Info() (Name, Dict)

	// Encode returns a writer which encodes data written to it and writes
	// the result to w.  Closing the returned writer also closes w.
	Encode(w io.WriteCloser) (io.WriteCloser, error)
}

// FilterCompress is the FlateDecode filter.  The map gives the decode
// parameters, for example {"Predictor": 12, "Columns": 2}.
// Only the predictors 1 (none) and 12 (PNG Up) are supported for writing.
type FilterCompress Dict

// Info implements the [Filter] interface.
func (f FilterCompress) Info() (Name, Dict) {
	if len(f) == 0 {
		return "FlateDecode", nil
	}
	return "FlateDecode", Dict(f)
}

// Encode implements the [Filter] interface.
func (f FilterCompress) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	p, err := getFlateParams(nil, Dict(f))
	if err != nil {
		return nil, err
	}
	zw, err := zlib.NewWriterLevel(w, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	fw := &flateWriter{zw: zw, w: w}
	switch p.predictor {
	case 1:
		return fw, nil
	case 12:
		return &pngUpWriter{
			w:    fw,
			prev: make([]byte, p.rowLen()),
			cur:  make([]byte, 0, p.rowLen()),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported predictor %d for writing", p.predictor)
	}
}

type flateWriter struct {
	zw *zlib.Writer
	w  io.WriteCloser
}

func (fw *flateWriter) Write(p []byte) (int, error) {
	return fw.zw.Write(p)
}

func (fw *flateWriter) Close() error {
	err := fw.zw.Close()
	if err != nil {
		return err
	}
	return fw.w.Close()
}

// DecodeStream returns a reader for the decoded stream data.
// If numFilters is non-zero, only the first numFilters filters are decoded.
func DecodeStream(r Getter, x *Stream, numFilters int) (io.Reader, error) {
	filters, err := getFilters(r, x.Dict)
	if err != nil {
		return nil, err
	}
	if numFilters > 0 && numFilters < len(filters) {
		filters = filters[:numFilters]
	}

	var res io.Reader = x.R
	for _, fi := range filters {
		res, err = fi.decode(r, res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

type filterInfo struct {
	name  Name
	parms Dict
}

func getFilters(r Getter, dict Dict) ([]filterInfo, error) {
	filter, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	parms, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	switch filter := filter.(type) {
	case nil:
		return nil, nil
	case Name:
		pDict, _ := GetDict(r, parms)
		return []filterInfo{{name: filter, parms: pDict}}, nil
	case Array:
		pArray, _ := parms.(Array)
		res := make([]filterInfo, 0, len(filter))
		for i, obj := range filter {
			name, err := GetName(r, obj)
			if err != nil {
				return nil, err
			}
			var pDict Dict
			if i < len(pArray) {
				pDict, _ = GetDict(r, pArray[i])
			}
			res = append(res, filterInfo{name: name, parms: pDict})
		}
		return res, nil
	default:
		return nil, Errorf("invalid /Filter field %s", Format(filter))
	}
}

func (fi filterInfo) decode(r Getter, in io.Reader) (io.Reader, error) {
	switch fi.name {
	case "FlateDecode", "Fl":
		p, err := getFlateParams(r, fi.parms)
		if err != nil {
			return nil, err
		}
		zr, err := zlib.NewReader(in)
		if err != nil {
			return nil, &MalformedFileError{Err: err}
		}
		switch {
		case p.predictor == 1:
			return zr, nil
		case p.predictor >= 10 && p.predictor <= 15:
			rowLen := p.rowLen()
			return &pngReader{
				r:    zr,
				bpp:  p.bytesPerPixel(),
				prev: make([]byte, rowLen),
				row:  make([]byte, 1+rowLen),
			}, nil
		default:
			return nil, Errorf("unsupported predictor %d", p.predictor)
		}
	default:
		return nil, Errorf("unsupported filter %q", fi.name)
	}
}

type flateParams struct {
	predictor int
	colors    int
	bpc       int
	columns   int
}

func getFlateParams(r Getter, parms Dict) (*flateParams, error) {
	p := &flateParams{
		predictor: 1,
		colors:    1,
		bpc:       8,
		columns:   1,
	}
	for key, ptr := range map[Name]*int{
		"Predictor":        &p.predictor,
		"Colors":           &p.colors,
		"BitsPerComponent": &p.bpc,
		"Columns":          &p.columns,
	} {
		val, err := GetInteger(r, parms[key])
		if err != nil {
			return nil, err
		}
		if _, present := parms[key]; present {
			*ptr = int(val)
		}
	}

	if p.colors < 1 || p.colors > 32 {
		return nil, Errorf("invalid /Colors %d", p.colors)
	}
	switch p.bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, Errorf("invalid /BitsPerComponent %d", p.bpc)
	}
	if p.columns < 1 || p.columns > 1<<20 {
		return nil, Errorf("invalid /Columns %d", p.columns)
	}
	return p, nil
}

func (p *flateParams) rowLen() int {
	return (p.colors*p.bpc*p.columns + 7) / 8
}

func (p *flateParams) bytesPerPixel() int {
	return max(1, p.colors*p.bpc/8)
}

// pngReader undoes the PNG predictors.  Every row starts with a byte
// giving the predictor used for that row.
type pngReader struct {
	r    io.Reader
	bpp  int
	prev []byte
	row  []byte
	pend []byte
}

func (r *pngReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}

		_, err := io.ReadFull(r.r, r.row)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = &MalformedFileError{Err: errors.New("incomplete PNG predictor row")}
		}
		if err != nil {
			return n, err
		}

		cur := r.row[1:]
		switch r.row[0] {
		case 0: // None
		case 1: // Sub
			for i := r.bpp; i < len(cur); i++ {
				cur[i] += cur[i-r.bpp]
			}
		case 2: // Up
			for i := range cur {
				cur[i] += r.prev[i]
			}
		case 3: // Average
			for i := range cur {
				var left int
				if i >= r.bpp {
					left = int(cur[i-r.bpp])
				}
				cur[i] += byte((left + int(r.prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range cur {
				var left, upLeft byte
				if i >= r.bpp {
					left = cur[i-r.bpp]
					upLeft = r.prev[i-r.bpp]
				}
				cur[i] += paeth(left, r.prev[i], upLeft)
			}
		default:
			return n, Errorf("invalid PNG predictor %d", r.row[0])
		}
		copy(r.prev, cur)
		r.pend = r.prev
	}
	return n, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// pngUpWriter applies the PNG Up predictor to every row.
// An incomplete final row is padded with zeros.
type pngUpWriter struct {
	w    io.WriteCloser
	prev []byte
	cur  []byte
	out  []byte
}

func (w *pngUpWriter) Write(p []byte) (int, error) {
	n := 0
	for len(p) > 0 {
		k := min(cap(w.cur)-len(w.cur), len(p))
		w.cur = append(w.cur, p[:k]...)
		p = p[k:]
		n += k
		if len(w.cur) == cap(w.cur) {
			err := w.flushRow()
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (w *pngUpWriter) flushRow() error {
	w.out = append(w.out[:0], 2)
	for i, c := range w.cur {
		w.out = append(w.out, c-w.prev[i])
	}
	copy(w.prev, w.cur)
	w.cur = w.cur[:0]
	_, err := w.w.Write(w.out)
	return err
}

func (w *pngUpWriter) Close() error {
	if len(w.cur) > 0 {
		for len(w.cur) < cap(w.cur) {
			w.cur = append(w.cur, 0)
		}
		err := w.flushRow()
		if err != nil {
			return err
		}
	}
	return w.w.Close()
}
