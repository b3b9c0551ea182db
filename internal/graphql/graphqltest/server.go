// Package graphqltest provides a fake GraphQL backend for tests.
package graphqltest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/frahmantamala/ontology-client/internal/graphql"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Call is one request the server received.
type Call struct {
	Operation     string
	Query         string
	Variables     map[string]any
	Authorization string
	RequestID     string
}

// Handler answers one operation with an HTTP status and a JSON-encodable body.
type Handler func(Call) (int, any)

type Server struct {
	server *httptest.Server

	mu       sync.Mutex
	calls    []Call
	handlers map[string][]Handler
	served   map[string]bool
}

func NewServer() *Server {
	s := &Server{handlers: make(map[string][]Handler), served: make(map[string]bool)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/graphql", s.handle)

	s.server = httptest.NewServer(r)
	return s
}

func (s *Server) Endpoint() string { return s.server.URL + "/graphql" }

func (s *Server) Close() { s.server.Close() }

// Handle queues h for the next request naming operation. The last queued
// handler keeps answering once earlier ones are used up, until another is queued.
func (s *Server) Handle(operation string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.served[operation] {
		s.handlers[operation] = nil
		s.served[operation] = false
	}
	s.handlers[operation] = append(s.handlers[operation], h)
}

// Respond answers operation with {"data": data}.
func (s *Server) Respond(operation string, data any) {
	s.Handle(operation, func(Call) (int, any) {
		return http.StatusOK, map[string]any{"data": data}
	})
}

// RespondErrors answers operation with a null data member and errs.
func (s *Server) RespondErrors(operation string, errs ...graphql.Error) {
	s.Handle(operation, func(Call) (int, any) {
		return http.StatusOK, map[string]any{"data": nil, "errors": errs}
	})
}

func (s *Server) RespondStatus(operation string, status int) {
	s.Handle(operation, func(Call) (int, any) {
		return status, map[string]any{"detail": http.StatusText(status)}
	})
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	call := Call{
		Operation:     graphql.OperationName(body.Query),
		Query:         body.Query,
		Variables:     body.Variables,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	h := s.next(call.Operation)
	s.mu.Unlock()

	status, payload := http.StatusOK, any(map[string]any{
		"data":   nil,
		"errors": []graphql.Error{{Message: "unhandled operation " + call.Operation}},
	})
	if h != nil {
		status, payload = h(call)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) next(operation string) Handler {
	queue := s.handlers[operation]
	if len(queue) == 0 {
		return nil
	}
	h := queue[0]
	if len(queue) > 1 {
		s.handlers[operation] = queue[1:]
	} else {
		s.served[operation] = true
	}
	return h
}
