package ui

import (
	"fmt"
	"io"
	"strings"
)

func OK(w io.Writer, s Styles, msg string) { fmt.Fprintln(w, s.Success.Render("✔ "+msg)) }

func Fail(w io.Writer, s Styles, msg string) { fmt.Fprintln(w, s.Error.Render("✖ "+msg)) }

func Warn(w io.Writer, s Styles, msg string) { fmt.Fprintln(w, s.Accent.Render("! "+msg)) }

// Panel draws lines inside a framed box.
func Panel(w io.Writer, s Styles, lines []string) {
	fmt.Fprintln(w, s.Border.Render(strings.Join(lines, "\n")))
}
