// Package apitest provides an in-memory stand-in for the to-do REST API,
// for exercising the client and the controller in tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog/log"

	"todolist/pkg/todo"
)

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	Query     string
	RequestID string
}

// Server is the HTTP stand-in. The list starts unprovisioned, so the first
// item fetch answers 404 until /api/v1/new is called.
type Server struct {
	URL string

	mu          sync.Mutex
	mux         *http.ServeMux
	provisioned bool
	items       []todo.Item
	nextID      int
	user        string
	version     string
	loggedOut   bool
	failures    map[string]int
	requests    []Request
}

// New creates a Server.
func New() *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		nextID:   1,
		user:     "tester",
		version:  "1.0.0",
		failures: make(map[string]int),
	}
	s.routes()
	return s
}

// Start runs a Server on a local listener until the test ends.
func Start(tb testing.TB) *Server {
	tb.Helper()
	s := New()
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	s.URL = ts.URL + "/"
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		RequestID: r.Header.Get("X-Request-Id"),
	})
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/items", s.guard("items", s.handleItems))
	s.mux.HandleFunc("GET /api/v1/new", s.guard("new", s.handleNew))
	s.mux.HandleFunc("POST /api/v1/items/add", s.guard("add", s.handleAdd))
	s.mux.HandleFunc("POST /api/v1/items/{id}/update", s.guard("update", s.handleUpdate))
	s.mux.HandleFunc("GET /api/v1/items/{id}/{action}", s.handleTransition)
	s.mux.HandleFunc("GET /api/v1/user", s.guard("user", s.handleUser))
	s.mux.HandleFunc("GET /api/v1/version", s.guard("version", s.handleVersion))
	s.mux.HandleFunc("POST /api/v1/logout", s.guard("logout", s.handleLogout))
}

// Provision creates the list as if /new had been called, seeded with items.
func (s *Server) Provision(items ...todo.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provisioned = true
	for _, it := range items {
		if it.ID <= 0 {
			it.ID = s.nextID
		}
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
		s.items = append(s.items, it)
	}
}

// Fail makes every call to endpoint answer status. Status 0 clears it.
// Endpoints are named like the client's: items, new, add, update, done,
// activate, deactivate, delete, user, version, logout.
func (s *Server) Fail(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, endpoint)
		return
	}
	s.failures[endpoint] = status
}

// Items returns the stored items.
func (s *Server) Items() []todo.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]todo.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Requests returns the recorded calls in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many recorded calls hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LoggedOut reports whether logout has been called.
func (s *Server) LoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

func (s *Server) guard(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if status := s.failure(endpoint); status != 0 {
			writeError(w, status, endpoint+" failed")
			return
		}
		h(w, r)
	}
}

func (s *Server) failure(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[endpoint]
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.provisioned {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	items := s.items
	if items == nil {
		items = []todo.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.provisioned = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var it todo.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if it.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.provisioned {
		writeError(w, http.StatusNotFound, "no list")
		return
	}
	it.ID = s.nextID
	s.nextID++
	s.items = append(s.items, it)
	writeJSON(w, http.StatusOK, it.ID)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var it todo.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "no such item")
		return
	}
	it.ID = id
	s.items[i] = it
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	switch action {
	case "done", "activate", "deactivate", "delete":
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	if status := s.failure(action); status != 0 {
		writeError(w, status, action+" failed")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, false)
		return
	}
	switch action {
	case "done", "deactivate":
		s.items[i].Done = true
	case "activate":
		s.items[i].Done = false
	case "delete":
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"user": s.user})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.loggedOut = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) indexLocked(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("apitest: write json")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
