package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/notesload/internal/client"
	"github.com/idilsaglam/notesload/internal/model"
)

const (
	titleWidth = 50
	bodyWidth  = 100
	ruleWidth  = 60
)

// Reporter prints the progress of a run, one line per note plus a summary.
type Reporter struct {
	out io.Writer
	s   Styles
}

func NewReporter(out io.Writer, s Styles) *Reporter {
	return &Reporter{out: out, s: s}
}

// Start announces what is about to be sent where.
func (r *Reporter) Start(total int, file, url string) {
	fmt.Fprintf(r.out, "Loaded %d notes from %s\n", total, file)
	fmt.Fprintf(r.out, "Inserting into %s...\n\n", url)
}

// Record prints the outcome of the i-th (1-based) note out of total.
func (r *Reporter) Record(i, total int, note model.Note, out client.Outcome) {
	fmt.Fprint(r.out, r.s.Muted.Render(fmt.Sprintf("[%d/%d]", i, total))+" ")
	title := model.Truncate(note.Title(), titleWidth)

	switch {
	case out.OK():
		fmt.Fprintf(r.out, "%s %s... (ID: %s)\n",
			r.s.Success.Render("✓ Created:"), title, out.ID)
	case out.Err != nil:
		fmt.Fprintf(r.out, "%s %s: %s\n",
			r.s.Error.Render("✗ Error creating"), title, oneLine(out.Err.Error()))
	default:
		fmt.Fprintf(r.out, "%s %s - Status: %d\n",
			r.s.Error.Render("✗ Failed:"), title, out.Status)
		fmt.Fprintf(r.out, "  Response: %s\n", model.Truncate(out.Body, bodyWidth))
	}
}

// Summary prints the final tally.
func (r *Reporter) Summary(succeeded, total int) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(r.out, "\n%s\n", rule)
	line := fmt.Sprintf("Completed: %d/%d notes created successfully", succeeded, total)
	if succeeded == total {
		line = r.s.Success.Render(line)
	} else {
		line = r.s.Title.Render(line)
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, rule)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
