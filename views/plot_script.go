package views

import (
	"fmt"
	"strings"

	"fgplot/models"
)

// Renderer control commands. Each is sent as its own line.
const (
	CmdReplot = "replot"
	CmdQuit   = "quit"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// PlotCommand builds the initial plot command. Every series reads the same
// data file; all but the first repeat it as an extra data source:
//
//	splot "pos.txt" using 1:2:3 title "Flight path" with lines, "pos.txt" using 1:2:4 title "Ground" with lines
func PlotCommand(verb, dataFile string, plot models.PlotSpec) string {
	var b strings.Builder
	b.WriteString(verb)
	b.WriteByte(' ')
	b.WriteString(quote(dataFile))
	for i, s := range plot {
		if i > 0 {
			b.WriteString(", ")
			b.WriteString(quote(dataFile))
		}
		fmt.Fprintf(&b, " using %s title %s with lines", s.Using, quote(s.Title))
	}
	return b.String()
}

// TerminalCommand switches rendering to a static image terminal.
func TerminalCommand(terminal string) string {
	return "set term " + terminal
}

// OutputCommand names the file the next render is written to.
func OutputCommand(path string) string {
	return "set output " + quote(path)
}
