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
	"errors"
	"fmt"
	"strings"
)

// MalformedFileError indicates that a PDF file or one of its objects could
// not be parsed.
type MalformedFileError struct {
	Err error
	Loc []string
}

func (err *MalformedFileError) Error() string {
	parts := make([]string, 0, len(err.Loc)+2)
	parts = append(parts, "not a valid PDF file")
	for i := len(err.Loc) - 1; i >= 0; i-- {
		parts = append(parts, err.Loc[i])
	}
	if err.Err != nil {
		parts = append(parts, err.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// Errorf returns a new [MalformedFileError] with the given message.
func Errorf(format string, args ...any) error {
	return &MalformedFileError{Err: fmt.Errorf(format, args...)}
}

// Wrap adds location information to a [MalformedFileError].
// Other errors are wrapped using fmt.Errorf.
func Wrap(err error, loc string) error {
	if err == nil {
		return nil
	}
	var e *MalformedFileError
	if errors.As(err, &e) {
		return &MalformedFileError{
			Err: e.Err,
			Loc: append(append([]string{}, e.Loc...), loc),
		}
	}
	return fmt.Errorf("%s: %w", loc, err)
}

// IsMalformed reports whether err is (or wraps) a [MalformedFileError].
func IsMalformed(err error) bool {
	var e *MalformedFileError
	return errors.As(err, &e)
}

// IsReadError reports whether err is a genuine read error, as opposed to a
// problem with the contents of the PDF file.  Callers which tolerate
// malformed files use this to decide whether to give up.
func IsReadError(err error) bool {
	return err != nil && !IsMalformed(err)
}
