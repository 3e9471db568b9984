// Package odootest provides an in-process fake Odoo JSON-RPC server for tests.
// It speaks the same envelope dialect as a real server, supports login and
// execute_kw dispatch, and records every call so tests can assert on traffic.
package odootest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/odoogo/odoogo/internal/common/jsonrpc"
)

// ServerError simulates a server-side exception payload.
type ServerError struct {
	Name          string // Python exception class name
	Message       string
	ExceptionType string // structured tag; empty simulates older servers
}

// Handler serves one model/method pair. Returning a ServerError produces a
// JSON-RPC error response with the usual Odoo data payload.
type Handler func(args []any, kwargs map[string]any) (any, *ServerError)

// Call records one execute_kw dispatch.
type Call struct {
	Model  string
	Method string
	Args   []any
	Kwargs map[string]any
}

// Server is a fake Odoo endpoint backed by httptest.
type Server struct {
	mu       sync.Mutex
	users    map[string]string
	uids     map[string]int64
	handlers map[string]Handler
	calls    []Call
	httpSrv  *httptest.Server
}

// New starts a fake server with a single admin/admin login mapping to uid 2.
func New() *Server {
	s := &Server{
		users:    map[string]string{"admin": "admin"},
		uids:     map[string]int64{"admin": 2},
		handlers: map[string]Handler{},
	}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// URL returns the base URL of the fake server.
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpSrv.Close()
}

// AddUser registers an additional login.
func (s *Server) AddUser(username, password string, uid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
	s.uids[username] = uid
}

// Handle registers a handler for a model/method pair.
func (s *Server) Handle(model, method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[model+"."+method] = h
}

// Calls returns a copy of all recorded execute_kw dispatches.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times a model/method pair was dispatched.
func (s *Server) CallCount(model, method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Model == model && c.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	req, err := jsonrpc.ParseRequest(body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch req.Params.Service {
	case jsonrpc.ServiceCommon:
		s.serveCommon(w, req)
	case jsonrpc.ServiceObject:
		s.serveObject(w, req)
	default:
		writeError(w, req.ID, &ServerError{Name: "builtins.KeyError", Message: "unknown service"})
	}
}

func (s *Server) serveCommon(w http.ResponseWriter, req *jsonrpc.Request) {
	switch req.Params.Method {
	case "login":
		// args: [db, username, password]
		if len(req.Params.Args) != 3 {
			writeResult(w, req.ID, false)
			return
		}
		username, _ := req.Params.Args[1].(string)
		password, _ := req.Params.Args[2].(string)
		s.mu.Lock()
		expected, ok := s.users[username]
		uid := s.uids[username]
		s.mu.Unlock()
		if !ok || expected != password {
			// a failed login is a false result, not an error
			writeResult(w, req.ID, false)
			return
		}
		writeResult(w, req.ID, uid)
	case "version":
		writeResult(w, req.ID, map[string]any{
			"server_version":   "17.0",
			"server_serie":     "17.0",
			"protocol_version": 1,
		})
	default:
		writeError(w, req.ID, &ServerError{Name: "builtins.AttributeError", Message: "unknown method"})
	}
}

func (s *Server) serveObject(w http.ResponseWriter, req *jsonrpc.Request) {
	// args: [db, uid, password, model, method, posArgs, kwargs]
	if req.Params.Method != "execute_kw" || len(req.Params.Args) < 6 {
		writeError(w, req.ID, &ServerError{Name: "builtins.TypeError", Message: "malformed execute_kw call"})
		return
	}
	model, _ := req.Params.Args[3].(string)
	method, _ := req.Params.Args[4].(string)
	posArgs, _ := req.Params.Args[5].([]any)
	kwargs := map[string]any{}
	if len(req.Params.Args) > 6 {
		if kw, ok := req.Params.Args[6].(map[string]any); ok {
			kwargs = kw
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Model: model, Method: method, Args: posArgs, Kwargs: kwargs})
	h, ok := s.handlers[model+"."+method]
	s.mu.Unlock()

	if !ok {
		writeError(w, req.ID, &ServerError{
			Name:    "odoo.exceptions.MissingError",
			Message: "no handler for " + model + "." + method,
		})
		return
	}

	result, serr := h(posArgs, kwargs)
	if serr != nil {
		writeError(w, req.ID, serr)
		return
	}
	writeResult(w, req.ID, result)
}

func writeResult(w http.ResponseWriter, id int64, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": jsonrpc.Version,
		"id":      id,
		"result":  result,
	})
}

func writeError(w http.ResponseWriter, id int64, serr *ServerError) {
	w.Header().Set("Content-Type", "application/json")
	data := map[string]any{
		"name":    serr.Name,
		"message": serr.Message,
	}
	if serr.ExceptionType != "" {
		data["exception_type"] = serr.ExceptionType
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": jsonrpc.Version,
		"id":      id,
		"error": map[string]any{
			"code":    200,
			"message": "Odoo Server Error",
			"data":    data,
		},
	})
}
