// Package clienttest runs a fake notes API for tests.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

const NotesPath = "/api/notes"

// Request is what the fake server saw for one create call.
type Request struct {
	Token       string
	RequestID   string
	ContentType string
	Note        map[string]any
}

type Response struct {
	Status int
	Body   string
}

// Created answers like the real API: 201 with the new note as JSON.
func Created(id string) Response {
	return Response{Status: http.StatusCreated, Body: fmt.Sprintf(`{"id":%q,"title":"","tags":[]}`, id)}
}

// Responder decides the answer to the i-th (0-based) create call.
type Responder func(i int, note map[string]any) Response

type Server struct {
	srv     *httptest.Server
	respond Responder

	mu       sync.Mutex
	requests []Request
}

// NewServer starts the fake API. A nil responder creates every note with
// ids note-1, note-2, ... Requests without a token cookie get a 401.
func NewServer(t testing.TB, respond Responder) *Server {
	t.Helper()
	if respond == nil {
		respond = func(i int, _ map[string]any) Response {
			return Created(fmt.Sprintf("note-%d", i+1))
		}
	}
	s := &Server{respond: respond}

	r := mux.NewRouter()
	r.HandleFunc(NotesPath, s.createNote).Methods(http.MethodPost)
	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// NotesURL is the create endpoint.
func (s *Server) NotesURL() string { return s.srv.URL + NotesPath }

// Close stops the server; later requests fail at the transport level.
func (s *Server) Close() { s.srv.Close() }

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	req := Request{
		RequestID:   r.Header.Get("X-Request-ID"),
		ContentType: r.Header.Get("Content-Type"),
	}
	if c, err := r.Cookie("token"); err == nil {
		req.Token = c.Value
	}
	if err := json.NewDecoder(r.Body).Decode(&req.Note); err != nil {
		http.Error(w, `{"error":"bad json"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	i := len(s.requests)
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	resp := Response{Status: http.StatusUnauthorized, Body: `{"error":"unauthorized"}`}
	if req.Token != "" {
		resp = s.respond(i, req.Note)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}
