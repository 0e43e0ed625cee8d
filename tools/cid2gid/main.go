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
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/term"
	"golang.org/x/text/unicode/runenames"

	"seehuhn.de/go/cidglyph/font"
	"seehuhn.de/go/cidglyph/font/cidfont"
	"seehuhn.de/go/cidglyph/font/cidtogid"
	"seehuhn.de/go/cidglyph/font/cmap"
	"seehuhn.de/go/cidglyph/font/gofont"
	"seehuhn.de/go/cidglyph/font/loader"
)

var (
	fontArg      = flag.String("font", "", "embedded font program `file` (TrueType or OpenType)")
	nameArg      = flag.String("name", "", "PostScript `name` of a font which is not embedded")
	fontMapArg   = flag.String("fontmap", "", "font map `file` for finding substitute fonts")
	mapArg       = flag.String("map", "", "binary CIDToGIDMap `file`")
	identityArg  = flag.Bool("identity", false, "use the /Identity CIDToGIDMap")
	symbolicArg  = flag.Bool("symbolic", false, "mark the font as symbolic")
	toUnicodeArg = flag.String("tounicode", "", "ToUnicode CMap `file`")
	encodingArg  = flag.String("encoding", "", "Encoding CMap `file`")
	verbose      = flag.Bool("v", false, "show debug messages")
	versionArg   = flag.Bool("version", false, "print version information and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cid2gid - map character codes of a CIDFontType2 font to glyphs\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", version())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  cid2gid [options] <code>...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  code   character codes, in decimal or as 0x-prefixed hex\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cid2gid -font DejaVuSans.ttf -map c2g.bin 1 2 3\n")
		fmt.Fprintf(os.Stderr, "  cid2gid -name Arial-BoldMT -fontmap fonts.map 0x41 0x42\n")
	}
	flag.Parse()

	if *versionArg {
		fmt.Println(version())
		return
	}
	if flag.NArg() < 1 || *fontArg == "" && *nameArg == "" {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	codes := make([]cmap.Code, 0, flag.NArg())
	for _, arg := range flag.Args() {
		x, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid character code %q", arg)
		}
		codes = append(codes, cmap.Code(x))
	}

	info, err := makeInfo()
	if err != nil {
		return err
	}

	opt := &cidfont.Options{
		Fallback: gofont.Fallback,
	}
	if *fontMapArg != "" {
		opt.Loader, err = readFontMap(*fontMapArg)
		if err != nil {
			return err
		}
		logger.Debug("font map loaded", "file", *fontMapArg, "fonts", len(opt.Loader.Names()))
	}

	F, err := cidfont.New(info, opt)
	if err != nil {
		return err
	}
	cidfont.Report(logger, F.Diagnostics())
	logger.Debug("font loaded",
		"name", F.Font().PostScriptName(),
		"embedding", F.Embedding(),
		"glyphs", F.Font().NumGlyphs())

	out := io.Writer(os.Stdout)
	sep := "\t"
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out = tw
	}
	fmt.Fprintln(out, strings.Join([]string{"code", "CID", "GID", "width", "text"}, sep))
	for _, code := range codes {
		cidVal := F.CodeToCID(code)
		gid, diags := F.Resolve(cidVal)
		cidfont.Report(logger, diags)
		fmt.Fprintf(out, "0x%02X%s%d%s%d%s%g%s%s\n",
			code, sep, cidVal, sep, gid, sep, F.Width(code), sep, describe(F.Text(cidVal)))
	}
	return tw.Flush()
}

func makeInfo() (*cidfont.Type2Info, error) {
	info := &cidfont.Type2Info{
		PostScriptName: *nameArg,
		IsSymbolic:     *symbolicArg,
		CIDToGID:       &cidtogid.Mapping{},
	}

	if *fontArg != "" {
		data, err := os.ReadFile(*fontArg)
		if err != nil {
			return nil, err
		}
		info.FontFile = data
	}

	info.Descriptor = &font.Descriptor{
		FontName:   info.PostScriptName,
		IsSymbolic: info.IsSymbolic,
		StemV:      -1,
	}

	switch {
	case *identityArg && *mapArg != "":
		return nil, errors.New("-identity and -map cannot be used together")
	case *identityArg:
		info.CIDToGID.Identity = true
	case *mapArg != "":
		fd, err := os.Open(*mapArg)
		if err != nil {
			return nil, err
		}
		table, err := cidtogid.Read(fd)
		fd.Close()
		if err != nil {
			info.CIDToGIDErr = err
		} else {
			info.CIDToGID.Table = table
		}
	}

	if *toUnicodeArg != "" {
		fd, err := os.Open(*toUnicodeArg)
		if err != nil {
			return nil, err
		}
		info.ToUnicode, err = cmap.ReadToUnicode(fd)
		fd.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *toUnicodeArg, err)
		}
	}

	if *encodingArg != "" {
		fd, err := os.Open(*encodingArg)
		if err != nil {
			return nil, err
		}
		info.Encoding, err = cmap.Read(fd)
		fd.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *encodingArg, err)
		}
	}

	return info, nil
}

func readFontMap(fname string) (*loader.FontLoader, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	l := loader.New()
	err = l.AddFontMap(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return l, nil
}

// describe returns the text together with the Unicode name of its first
// character.
func describe(text string) string {
	if text == "" {
		return "-"
	}
	r, _ := utf8.DecodeRuneInString(text)
	return fmt.Sprintf("%q %s", text, runenames.Name(r))
}
