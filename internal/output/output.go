package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/veegee/lsdisk/internal/device"
	"github.com/veegee/lsdisk/internal/lsblk"
)

// Style selects how devices are rendered
type Style string

const (
	StyleAuto  Style = "auto"
	StyleBoxed Style = "table"
	StylePlain Style = "plain"
	StyleJSON  Style = "json"
)

// ParseStyle converts a --format value into a Style
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleAuto:
		return StyleAuto, nil
	case StyleBoxed, StylePlain, StyleJSON:
		return Style(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, table, plain or json)", s)
	}
}

// Resolve turns StyleAuto into a concrete style: boxed when w is an
// interactive terminal, plain otherwise (pipes, files)
func Resolve(style Style, w io.Writer) Style {
	if style != StyleAuto {
		return style
	}
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		return StyleBoxed
	}
	return StylePlain
}

// IsTerminal reports whether f is connected to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Options control rendering
type Options struct {
	Columns lsblk.ColumnSet
	Style   Style
	Header  bool
}

// Render writes one row per device in the order given
func Render(w io.Writer, devices []device.Device, opts Options) error {
	style := Resolve(opts.Style, w)
	if style == StyleJSON {
		return PrintJSON(w, devices)
	}
	PrintTable(w, devices, opts.Columns, style, opts.Header)
	return nil
}

// PrintJSON outputs the devices as an indented JSON array
func PrintJSON(w io.Writer, devices []device.Device) error {
	if devices == nil {
		devices = []device.Device{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}

// PrintTable outputs the devices' display fields as a table
func PrintTable(w io.Writer, devices []device.Device, cols lsblk.ColumnSet, style Style, header bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if style == StyleBoxed {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(plainStyle())
	}
	t.Style().Format.Header = text.FormatDefault

	if header {
		t.AppendHeader(row(device.Headers(cols)))
	}
	for _, d := range devices {
		t.AppendRow(row(d.DisplayFields(cols)))
	}

	t.Render()
}

// plainStyle draws no borders or separators; columns are aligned and
// separated by two spaces
func plainStyle() table.Style {
	s := table.StyleDefault
	s.Name = "plain"
	s.Box.PaddingLeft = ""
	s.Box.PaddingRight = ""
	s.Box.MiddleVertical = "  "
	s.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: true,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	}
	return s
}

func row(fields []string) table.Row {
	r := make(table.Row, 0, len(fields))
	for _, f := range fields {
		r = append(r, f)
	}
	return r
}
