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

import "slices"

// Code is a character code, the big-endian value of the bytes which make up
// the code in a PDF string.
type Code uint32

// Range represents a range of character codes.
// To be within the range, a byte sequence must have the same length as Low
// and High, and every byte in the sequence must be between the corresponding
// bytes in Low and High (inclusive).
type Range struct {
	Low, High []byte
}

func (r Range) isValid() bool {
	if len(r.Low) != len(r.High) || len(r.Low) == 0 || len(r.Low) > 4 {
		return false
	}
	for i := range r.Low {
		if r.Low[i] > r.High[i] {
			return false
		}
	}
	return true
}

func (r Range) contains(s []byte) bool {
	if len(s) != len(r.Low) {
		return false
	}
	for i, b := range s {
		if b < r.Low[i] || b > r.High[i] {
			return false
		}
	}
	return true
}

// CodeSpaceRange describes the ranges of byte sequences which are valid
// character codes for a given encoding.
type CodeSpaceRange []Range

var (
	// Simple represents one-byte character codes.
	Simple = CodeSpaceRange{{[]byte{0x00}, []byte{0xFF}}}

	// UCS2 represents two-byte character codes.
	UCS2 = CodeSpaceRange{{[]byte{0x00, 0x00}, []byte{0xFF, 0xFF}}}
)

// Decode splits the first character code off s.  It returns the code and
// the number of bytes consumed.  If s does not start with a valid code, the
// length of the shortest code in the code space is consumed.  The length is
// zero only if s is empty.
func (csr CodeSpaceRange) Decode(s []byte) (Code, int) {
	if len(s) == 0 {
		return 0, 0
	}
	for _, r := range csr {
		n := len(r.Low)
		if n <= len(s) && r.contains(s[:n]) {
			return codeValue(s[:n]), n
		}
	}
	n := min(csr.minLen(), len(s))
	return codeValue(s[:n]), n
}

// Bytes returns the byte sequence for code.  If the code space has several
// ranges which contain code, the shortest sequence is used.  Codes outside
// the code space use the shortest length which can hold the value.
func (csr CodeSpaceRange) Bytes(code Code) []byte {
	var buf [4]byte
	for n := 1; n <= 4; n++ {
		if n < 4 && code >= 1<<(8*n) {
			continue
		}
		s := appendCode(buf[:0], code, n)
		for _, r := range csr {
			if r.contains(s) {
				return slices.Clone(s)
			}
		}
	}

	n := max(csr.minLen(), 1)
	for n < 4 && code >= 1<<(8*n) {
		n++
	}
	return appendCode(nil, code, n)
}

func (csr CodeSpaceRange) minLen() int {
	res := 0
	for _, r := range csr {
		if res == 0 || len(r.Low) < res {
			res = len(r.Low)
		}
	}
	if res == 0 {
		return 1
	}
	return res
}

func codeValue(s []byte) Code {
	var c Code
	for _, b := range s {
		c = c<<8 | Code(b)
	}
	return c
}

func appendCode(buf []byte, code Code, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		buf = append(buf, byte(code>>(8*i)))
	}
	return buf
}

// rangeIndex returns the position of s within the range first-last, where
// codes are enumerated with the last byte changing fastest.
func rangeIndex(first, last, s []byte) (int, bool) {
	if len(first) != len(s) || len(last) != len(s) {
		return 0, false
	}
	idx := 0
	for i, b := range s {
		if b < first[i] || b > last[i] {
			return 0, false
		}
		idx = idx*(int(last[i])-int(first[i])+1) + int(b-first[i])
	}
	return idx, true
}
