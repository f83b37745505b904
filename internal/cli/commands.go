package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/notesload/internal/auth"
	"github.com/idilsaglam/notesload/internal/client"
	"github.com/idilsaglam/notesload/internal/config"
	"github.com/idilsaglam/notesload/internal/model"
	"github.com/idilsaglam/notesload/internal/store/jsonstore"
	"github.com/idilsaglam/notesload/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries the process exit code. The message has already been
// printed by the time one is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Options is everything a command needs from the outside world.
type Options struct {
	Config *config.Config
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
	Sleep  func(time.Duration)
	Now    func() time.Time
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: notesload <JWT_TOKEN>
   or: %s=<token> notesload
`, auth.EnvVar)
}

// Load runs one full pass: resolve the token, read the notes, create
// them one by one and print the summary. Per-note failures do not make
// it return an error.
func Load(ctx context.Context, opt Options) (Result, error) {
	opt.defaults()
	cfg := opt.Config
	errStyles := ui.NewStyles(opt.Stderr, cfg.NoColor)

	ti, err := auth.Resolve(cfg.Getenv, opt.Args)
	if err != nil {
		ui.Fail(opt.Stderr, errStyles, "Error: JWT token required")
		PrintUsage(opt.Stderr)
		return Result{}, &ExitError{Code: ExitUsage, Err: err}
	}
	warnIfExpired(opt, errStyles, ti.Token)

	notes, err := LoadNotes(opt)
	if err != nil {
		return Result{}, err
	}

	c := client.New(cfg.URL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(opt.Logger))
	rep := ui.NewReporter(opt.Stdout, ui.NewStyles(opt.Stdout, cfg.NoColor))

	opt.Logger.Debug("starting run",
		zap.Int("notes", len(notes)),
		zap.String("file", cfg.File),
		zap.String("url", cfg.URL),
		zap.String("token_source", ti.Source),
		zap.Duration("delay", cfg.Delay))

	rep.Start(len(notes), cfg.File, c.URL())
	r := &Runner{
		Client:   c,
		Reporter: rep,
		Delay:    cfg.Delay,
		Sleep:    opt.Sleep,
		Logger:   opt.Logger,
	}
	res := r.Run(ctx, notes, ti.Token)
	rep.Summary(res.Succeeded, res.Attempted)
	return res, nil
}

// The server is the judge of a token; an expired one only earns a warning.
func warnIfExpired(opt Options, s ui.Styles, token string) {
	claims, err := auth.Inspect(token)
	if err != nil || !claims.Expired(opt.Now()) {
		return
	}
	opt.Logger.Warn("token expired", zap.Time("expires_at", *claims.ExpiresAt))
	ui.Warn(opt.Stderr, s, "token expired at "+claims.ExpiresAt.UTC().Format(time.RFC3339)+"; the server will likely reject it")
}

// LoadNotes reads the configured notes file, printing the failure.
func LoadNotes(opt Options) ([]model.Note, error) {
	opt.defaults()
	notes, err := jsonstore.Load(opt.Config.File)
	if err != nil {
		ui.Fail(opt.Stderr, ui.NewStyles(opt.Stderr, opt.Config.NoColor), "load "+opt.Config.File+": "+err.Error())
		return nil, &ExitError{Code: ExitFailure, Err: err}
	}
	return notes, nil
}

// AuthStatus describes the token a run would use, without sending it.
func AuthStatus(opt Options) error {
	opt.defaults()
	cfg := opt.Config
	s := ui.NewStyles(opt.Stdout, cfg.NoColor)

	ti, err := auth.Resolve(cfg.Getenv, opt.Args)
	if err != nil {
		fmt.Fprintln(opt.Stdout, s.Muted.Render("no token found"))
		PrintUsage(opt.Stdout)
		return &ExitError{Code: ExitUsage, Err: err}
	}

	lines := []string{
		s.Title.Render("Token"),
		"source: " + ti.Source,
	}
	claims, err := auth.Inspect(ti.Token)
	if err != nil {
		lines = append(lines, "opaque token (cannot introspect locally)")
		ui.Panel(opt.Stdout, s, lines)
		return nil
	}

	if claims.Subject != "" {
		lines = append(lines, "subject: "+claims.Subject)
	}
	if claims.Issuer != "" {
		lines = append(lines, "issuer: "+claims.Issuer)
	}
	if claims.IssuedAt != nil {
		lines = append(lines, "issued: "+claims.IssuedAt.UTC().Format(time.RFC3339))
	}
	switch {
	case claims.ExpiresAt == nil:
		lines = append(lines, "expires: (never)")
	case claims.Expired(opt.Now()):
		lines = append(lines, "expires: "+s.Error.Render(claims.ExpiresAt.UTC().Format(time.RFC3339)+" (expired)"))
	default:
		lines = append(lines, "expires: "+s.Success.Render(claims.ExpiresAt.UTC().Format(time.RFC3339)))
	}
	lines = append(lines, s.Muted.Render("signature not verified"))
	ui.Panel(opt.Stdout, s, lines)
	return nil
}
