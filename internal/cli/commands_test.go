package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/idilsaglam/notesload/internal/auth"
	"github.com/idilsaglam/notesload/internal/client/clienttest"
	"github.com/idilsaglam/notesload/internal/config"
)

const threeNotes = `[
	{"title": "Project kickoff", "content": "Agenda and owners", "tags": ["work"]},
	{"title": "Reading list", "content": "Books for Q3"},
	{"title": "Recipe: dal", "content": "Lentils, cumin, turmeric", "tags": ["food", "home"]}
]`

type harness struct {
	opt    Options
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, url, notes string, env map[string]string, args ...string) *harness {
	t.Helper()
	file := filepath.Join(t.TempDir(), "notes.json")
	if notes != "" {
		require.NoError(t, os.WriteFile(file, []byte(notes), 0o644))
	}
	if env == nil {
		env = map[string]string{}
	}
	env["NOTES_API_URL"] = url
	env["NOTES_FILE"] = file
	cfg, err := config.Load("", func(k string) string { return env[k] })
	require.NoError(t, err)
	cfg.NoColor = true

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.opt = Options{
		Config: cfg,
		Args:   args,
		Stdout: h.stdout,
		Stderr: h.stderr,
		Logger: zaptest.NewLogger(t),
		Sleep:  func(time.Duration) {},
	}
	return h
}

func lastLines(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) < n {
		return lines
	}
	return lines[len(lines)-n:]
}

func TestLoadCreatesAllNotesInOrder(t *testing.T) {
	srv := clienttest.NewServer(t, nil)
	h := newHarness(t, srv.NotesURL(), threeNotes, map[string]string{auth.EnvVar: "secret"})

	res, err := Load(context.Background(), h.opt)
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 3, Succeeded: 3}, res)

	var titles []string
	for _, r := range srv.Requests() {
		titles = append(titles, r.Note["title"].(string))
		assert.Equal(t, "secret", r.Token)
	}
	if diff := cmp.Diff([]string{"Project kickoff", "Reading list", "Recipe: dal"}, titles); diff != "" {
		t.Errorf("request order (-want +got):\n%s", diff)
	}

	out := h.stdout.String()
	assert.True(t, strings.HasPrefix(out, "Loaded 3 notes from "))
	assert.Contains(t, out, "Inserting into "+srv.NotesURL()+"...")
	assert.Contains(t, out, "[1/3] ✓ Created: Project kickoff... (ID: note-1)")
	assert.Contains(t, out, "[3/3] ✓ Created: Recipe: dal... (ID: note-3)")
	assert.Empty(t, h.stderr.String())
}

func TestLoadMixedOutcomeSummary(t *testing.T) {
	srv := clienttest.NewServer(t, func(i int, _ map[string]any) clienttest.Response {
		if i == 1 {
			return clienttest.Response{Status: http.StatusInternalServerError, Body: `{"error":"db down"}`}
		}
		return clienttest.Created("abc")
	})
	h := newHarness(t, srv.NotesURL(), threeNotes, nil, "arg-token")

	res, err := Load(context.Background(), h.opt)
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 3, Succeeded: 2}, res)
	assert.Len(t, srv.Requests(), 3)

	out := h.stdout.String()
	assert.Contains(t, out, "[2/3] ✗ Failed: Reading list - Status: 500\n  Response: {\"error\":\"db down\"}")
	tail := lastLines(out, 2)
	assert.Equal(t, "Completed: 2/3 notes created successfully", tail[0])
	assert.Equal(t, strings.Repeat("=", 60), tail[1])
}

func TestLoadArgTokenUsedWhenEnvMissing(t *testing.T) {
	srv := clienttest.NewServer(t, nil)
	h := newHarness(t, srv.NotesURL(), `[{"title": "only"}]`, nil, "from-arg")

	_, err := Load(context.Background(), h.opt)
	require.NoError(t, err)
	require.Len(t, srv.Requests(), 1)
	assert.Equal(t, "from-arg", srv.Requests()[0].Token)
}

func TestLoadWithoutTokenAbortsBeforeRequests(t *testing.T) {
	srv := clienttest.NewServer(t, nil)
	h := newHarness(t, srv.NotesURL(), threeNotes, nil)

	_, err := Load(context.Background(), h.opt)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ExitUsage, ee.Code)
	assert.ErrorIs(t, err, auth.ErrNoToken)
	assert.Empty(t, srv.Requests())
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "JWT token required")
	assert.Contains(t, h.stderr.String(), "Usage: notesload <JWT_TOKEN>")
}

func TestLoadBadFileAbortsBeforeRequests(t *testing.T) {
	for name, body := range map[string]string{
		"missing": "",
		"invalid": `[{"title": "unterminated"`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := clienttest.NewServer(t, nil)
			h := newHarness(t, srv.NotesURL(), body, map[string]string{auth.EnvVar: "tok"})

			_, err := Load(context.Background(), h.opt)

			var ee *ExitError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, ExitFailure, ee.Code)
			assert.Empty(t, srv.Requests())
			assert.Contains(t, h.stderr.String(), "load ")
		})
	}
}

func TestLoadAllFailStillSucceeds(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	h := newHarness(t, "http://"+addr+"/api/notes", threeNotes, map[string]string{auth.EnvVar: "tok"})

	res, err := Load(context.Background(), h.opt)
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 3, Succeeded: 0}, res)
	assert.Equal(t, 3, strings.Count(h.stdout.String(), "✗ Error creating"))
	assert.Contains(t, h.stdout.String(), "Completed: 0/3 notes created successfully")
}

func TestLoadTransportFailureMidRun(t *testing.T) {
	srv := clienttest.NewServer(t, func(int, map[string]any) clienttest.Response {
		return clienttest.Created("first")
	})
	h := newHarness(t, srv.NotesURL(), threeNotes, map[string]string{auth.EnvVar: "tok"})

	// the server goes away after the first note
	calls := 0
	h.opt.Sleep = func(time.Duration) {
		calls++
		if calls == 1 {
			srv.Close()
		}
	}
	h.opt.Config.Delay = time.Millisecond

	res, err := Load(context.Background(), h.opt)
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 3, Succeeded: 1}, res)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, strings.Count(h.stdout.String(), "✗ Error creating"))
}

func TestLoadWarnsOnExpiredToken(t *testing.T) {
	srv := clienttest.NewServer(t, nil)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "demo",
		"exp": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	h := newHarness(t, srv.NotesURL(), `[{"title": "x"}]`, map[string]string{auth.EnvVar: tok})
	_, err = Load(context.Background(), h.opt)
	require.NoError(t, err)

	assert.Contains(t, h.stderr.String(), "token expired at 2020-01-01T00:00:00Z")
	// still sent; the server decides
	assert.Len(t, srv.Requests(), 1)
}

func TestAuthStatus(t *testing.T) {
	exp := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "demo@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	h := newHarness(t, "http://unused", "", map[string]string{auth.EnvVar: tok})
	h.opt.Now = func() time.Time { return exp.Add(-time.Hour) }
	require.NoError(t, AuthStatus(h.opt))

	out := h.stdout.String()
	assert.Contains(t, out, "source: env")
	assert.Contains(t, out, "subject: demo@example.com")
	assert.Contains(t, out, "expires: 2031-05-06T07:08:09Z")
	assert.NotContains(t, out, "(expired)")
}

func TestAuthStatusOpaque(t *testing.T) {
	h := newHarness(t, "http://unused", "", nil, "session-abc")
	require.NoError(t, AuthStatus(h.opt))

	assert.Contains(t, h.stdout.String(), "source: arg")
	assert.Contains(t, h.stdout.String(), "opaque token")
}

func TestAuthStatusMissing(t *testing.T) {
	h := newHarness(t, "http://unused", "", nil)
	err := AuthStatus(h.opt)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ExitUsage, ee.Code)
	assert.Contains(t, h.stdout.String(), "no token found")
}
