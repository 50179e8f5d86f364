// Package ui holds the CLI's colours and small print helpers.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Banner prints the command banner.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s - %s\n\n", Brand.Sprint("backdrop"), subtitle)
}

// Check renders a yes/no value.
func Check(ok bool) string {
	if ok {
		return Good.Sprint("yes")
	}
	return Bad.Sprint("no")
}

// KeyValues prints aligned "key  value" rows.
func KeyValues(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n", Subtle.Sprint(r[0]+strings.Repeat(" ", width-len(r[0]))), r[1])
	}
}
