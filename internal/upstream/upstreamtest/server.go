// Package upstreamtest runs an in-memory listing API for tests.
package upstreamtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"estate-portal/internal/pkg/session"
	"estate-portal/internal/upstream"

	"github.com/stretchr/testify/require"
)

// Request is one call the fake received.
type Request struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   map[string]any
}

type failure struct {
	status  int
	message string
}

// queryAliases maps list query parameters onto record fields.
var queryAliases = map[string]string{"parentId": "propertyId"}

// Server speaks the listing API envelope: GET <res>, GET <res>/:id,
// POST <res>/add, PATCH <res>/update/:id, DELETE <res>/delete/:id and the
// notification read routes.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	records  map[string][]map[string]any
	requests []Request
	failures map[string]failure
	nextID   int
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		records:  make(map[string][]map[string]any),
		failures: make(map[string]failure),
		nextID:   1000,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client returns an upstream client pointed at the fake.
func (s *Server) Client(t testing.TB, tokens session.Provider) *upstream.Client {
	t.Helper()
	c, err := upstream.NewClient(upstream.Config{BaseURL: s.URL, Timeout: 5 * time.Second, PageLimit: 50}, tokens, nil, nil)
	require.NoError(t, err)
	return c
}

// Seed appends records to a resource.
func (s *Server) Seed(resource string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[resource] = append(s.records[resource], records...)
}

// Fail makes requests matching method and path prefix answer with status.
func (s *Server) Fail(method, pathPrefix string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pathPrefix] = failure{status: status, message: message}
}

// Recover clears every failure.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many calls matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Records returns a resource's current records.
func (s *Server) Records(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.records[resource]...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.Trim(r.URL.Path, "/")
	req := Request{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Token:  strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
	}
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
	}
	s.requests = append(s.requests, req)

	for key, f := range s.failures {
		method, prefix, _ := strings.Cut(key, " ")
		if method == r.Method && strings.HasPrefix(path, prefix) {
			writeJSON(w, f.status, map[string]any{"status": false, "message": f.message})
			return
		}
	}

	parts := strings.Split(path, "/")
	resource := parts[0]

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		items := []map[string]any{}
		for _, rec := range s.records[resource] {
			if matches(rec, r) {
				items = append(items, rec)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": true,
			"data":   items,
			"meta":   map[string]any{"totalPages": 1, "currentPage": 1},
		})

	case r.Method == http.MethodGet && len(parts) == 2:
		if i := s.index(resource, parts[1]); i >= 0 {
			ok(w, s.records[resource][i])
			return
		}
		notFound(w)

	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "add":
		rec := map[string]any{}
		for k, v := range req.Body {
			rec[k] = v
		}
		s.nextID++
		rec["id"] = s.nextID
		rec["createdAt"] = time.Now().UTC().Format(time.RFC3339)
		s.records[resource] = append(s.records[resource], rec)
		ok(w, rec)

	case r.Method == http.MethodPatch && len(parts) == 3 && parts[1] == "update":
		i := s.index(resource, parts[2])
		if i < 0 {
			notFound(w)
			return
		}
		for k, v := range req.Body {
			s.records[resource][i][k] = v
		}
		ok(w, s.records[resource][i])

	case r.Method == http.MethodDelete && len(parts) == 3 && parts[1] == "delete":
		i := s.index(resource, parts[2])
		if i < 0 {
			notFound(w)
			return
		}
		s.records[resource] = append(s.records[resource][:i], s.records[resource][i+1:]...)
		ok(w, nil)

	case r.Method == http.MethodPatch && len(parts) == 3 && parts[1] == "read":
		i := s.index(resource, parts[2])
		if i < 0 {
			notFound(w)
			return
		}
		s.records[resource][i]["isRead"] = true
		ok(w, nil)

	case r.Method == http.MethodPatch && len(parts) == 2 && parts[1] == "read-all":
		for _, rec := range s.records[resource] {
			rec["isRead"] = true
		}
		ok(w, nil)

	default:
		notFound(w)
	}
}

func (s *Server) index(resource, id string) int {
	for i, rec := range s.records[resource] {
		if fmt.Sprint(rec["id"]) == id {
			return i
		}
	}
	return -1
}

func matches(rec map[string]any, r *http.Request) bool {
	for key, values := range r.URL.Query() {
		if key == "page" || key == "limit" || len(values) == 0 {
			continue
		}
		field := key
		if alias, ok := queryAliases[key]; ok {
			field = alias
		}
		if fmt.Sprint(rec[field]) != values[0] {
			return false
		}
	}
	return true
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "data": data})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{"status": false, "message": "record not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
