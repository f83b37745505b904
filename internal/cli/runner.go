package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/notesload/internal/client"
	"github.com/idilsaglam/notesload/internal/model"
	"github.com/idilsaglam/notesload/internal/ui"
)

// Creator sends one note to the notes API.
type Creator interface {
	Create(ctx context.Context, note model.Note, token string) client.Outcome
}

// Result is the tally of one run.
type Result struct {
	Attempted int
	Succeeded int
}

func (r Result) Failed() int { return r.Attempted - r.Succeeded }

// Runner walks the notes in order, one request at a time.
type Runner struct {
	Client   Creator
	Reporter *ui.Reporter
	Delay    time.Duration
	Sleep    func(time.Duration) // defaults to time.Sleep
	Logger   *zap.Logger
}

// Run creates every note and reports each outcome. A failed note is
// counted and skipped; nothing stops the run early.
func (r *Runner) Run(ctx context.Context, notes []model.Note, token string) Result {
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var res Result
	for i, note := range notes {
		if i > 0 && r.Delay > 0 {
			sleep(r.Delay)
		}
		out := r.Client.Create(ctx, note, token)
		res.Attempted++
		if out.OK() {
			res.Succeeded++
		} else {
			logger.Debug("note not created",
				zap.Int("index", i+1),
				zap.Int("status", out.Status),
				zap.Error(out.Err))
		}
		if r.Reporter != nil {
			r.Reporter.Record(i+1, len(notes), note, out)
		}
	}
	return res
}
