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

package main

import (
	"runtime/debug"
	"strings"
)

// version describes the build of cid2gid, together with the version of the
// sfnt module used to parse font programs.
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "cid2gid"
	}

	parts := []string{moduleVersion(info.Main, info.Settings)}
	for _, dep := range info.Deps {
		if dep.Path == "seehuhn.de/go/sfnt" {
			parts = append(parts, "sfnt "+dep.Version)
		}
	}
	return "cid2gid (" + strings.Join(parts, ", ") + ")"
}

// moduleVersion returns the version of the main module.  For development
// builds the VCS revision is used instead.
func moduleVersion(m debug.Module, settings []debug.BuildSetting) string {
	if m.Version != "" && m.Version != "(devel)" {
		return m.Path + " " + m.Version
	}

	rev := "devel"
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 8)]
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if modified {
		rev += "+dirty"
	}
	return m.Path + " " + rev
}
