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

// Package loader finds substitute fonts for fonts which are not embedded in
// a PDF file.
//
// Substitute fonts are TrueType or OpenType files, optionally packed as
// WOFF2 or EOT web fonts.  Fonts are registered by PostScript name, either
// one at a time using [FontLoader.AddFont] or in bulk from a font map file
// using [FontLoader.AddFontMap].
package loader

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	tdfont "github.com/tdewolff/font"
	"github.com/tdewolff/parse/v2"
	"seehuhn.de/go/sfnt"
)

// ErrUnknownFont is returned when no font is registered under the
// requested name.
var ErrUnknownFont = fmt.Errorf("loader: unknown font: %w", fs.ErrNotExist)

// A FontLoader can load fonts, in case fonts are not embedded in the PDF file.
//
// It is safe to use a FontLoader concurrently from multiple goroutines.
type FontLoader struct {
	sync.RWMutex
	lookup map[string]string
}

// New creates a new, empty font loader.
func New() *FontLoader {
	return &FontLoader{
		lookup: make(map[string]string),
	}
}

// AddFont adds a font to the loader.  Any previous mapping for the same
// PostScript name is overwritten.
func (l *FontLoader) AddFont(postscriptName string, fname string) {
	l.Lock()
	l.lookup[postscriptName] = fname
	l.Unlock()
}

// AddFontMap reads a font map from r and adds it to the loader.  A font map
// consists of lines of the form
//
//	<name> <type> <path>
//
// where <name> is the PostScript name of the font, <type> is the font type,
// and <path> is the path to the font file.  The fields must be separated by
// single spaces.  Lines starting with '#' or '%' are ignored.  Only fonts of
// type "sfnt" can serve as substitutes for TrueType fonts; lines for the
// types "type1" and "afm" are skipped.
//
// Any previous mapping for <name> is overwritten.
func (l *FontLoader) AddFontMap(r io.Reader) error {
	lines := bufio.NewScanner(r)
	lineNo := 0
	for lines.Scan() {
		lineNo++
		line := strings.TrimSpace(lines.Text())
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return fmt.Errorf("line %d: invalid font map line: %q", lineNo, line)
		}
		switch parts[1] {
		case "sfnt":
			l.AddFont(parts[0], parts[2])
		case "type1", "afm":
			// not usable for TrueType-based fonts
		default:
			return fmt.Errorf("line %d: invalid font type %q", lineNo, parts[1])
		}
	}
	return lines.Err()
}

// Names returns the PostScript names of all registered fonts, in
// alphabetical order.
func (l *FontLoader) Names() []string {
	l.RLock()
	res := make([]string, 0, len(l.lookup))
	for name := range l.lookup {
		res = append(res, name)
	}
	l.RUnlock()
	slices.Sort(res)
	return res
}

// Open opens the font file registered for the given PostScript name.  The
// returned io.ReadCloser must be closed by the caller.
func (l *FontLoader) Open(postscriptName string) (io.ReadCloser, error) {
	l.RLock()
	fname, ok := l.lookup[postscriptName]
	l.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, postscriptName)
	}
	return os.Open(fname)
}

// Load reads and parses the font registered for the given PostScript name.
func (l *FontLoader) Load(postscriptName string) (*sfnt.Font, error) {
	r, err := l.Open(postscriptName)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a TrueType or OpenType font, unpacking WOFF2 and EOT files
// first.
func Parse(data []byte) (*sfnt.Font, error) {
	var err error
	switch detectFormat(data) {
	case formatWOFF2:
		data, err = tdfont.ParseWOFF2(data)
	case formatEOT:
		data, err = tdfont.ParseEOT(data)
	case formatWOFF:
		err = errors.New("WOFF fonts are not supported")
	case formatUnknown:
		err = errors.New("unknown font file format")
	}
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return sfnt.Read(bytes.NewReader(data))
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatSFNT
	formatWOFF
	formatWOFF2
	formatEOT
)

func (f fileFormat) String() string {
	switch f {
	case formatSFNT:
		return "sfnt"
	case formatWOFF:
		return "WOFF"
	case formatWOFF2:
		return "WOFF2"
	case formatEOT:
		return "EOT"
	default:
		return "unknown"
	}
}

// eotMagicOffset is the position of the magic number 0x504C in the
// EOT header.
const eotMagicOffset = 34

func detectFormat(data []byte) fileFormat {
	if len(data) < 4 {
		return formatUnknown
	}
	switch string(data[:4]) {
	case "\x00\x01\x00\x00", "true", "OTTO", "ttcf":
		return formatSFNT
	case "wOFF":
		return formatWOFF
	case "wOF2":
		return formatWOFF2
	}

	if len(data) >= eotMagicOffset+2 {
		r := parse.NewBinaryReaderBytes(data)
		r.ByteOrder = binary.LittleEndian
		r.ReadBytes(eotMagicOffset)
		if r.ReadUint16() == 0x504C {
			return formatEOT
		}
	}
	return formatUnknown
}
