package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

// console is the terminal loading indicator and alert sink of a board.
type console struct {
	w io.Writer
}

// Show prints the loading line.
func (c console) Show() {
	color.New(color.FgCyan).Fprintln(c.w, "Loading...")
}

// Hide is a no-op; the status line that follows replaces the indicator.
func (c console) Hide() {}

// Alert prints a refresh failure.
func (c console) Alert(message string) {
	color.New(color.FgRed, color.Bold).Fprintln(c.w, message)
}

// summary prints which widgets a dispatch drew and which it hid.
func (c console) summary(action, target string, out widgets.Outcome) {
	color.New(color.FgGreen).Fprintf(c.w, "%s %d charts to %s", action, len(out.Rendered), target)

	if len(out.Hidden) > 0 {
		color.New(color.FgYellow).Fprintf(c.w, " (%d hidden)", len(out.Hidden))
	}

	fmt.Fprintln(c.w)
}
