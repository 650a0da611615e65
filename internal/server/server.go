// Package server implements the relay HTTP API: CRUD and listing over the
// command/result collections, guarded by a bearer token, plus the embedded
// operator dashboard under /ui/. Responses use a JSON envelope with a
// success flag so callers never have to interpret status codes for domain
// failures.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"taskrelay/internal/logging"
	"taskrelay/internal/store"
)

//go:embed static
var staticFS embed.FS

// Server is the relay HTTP handler.
type Server struct {
	store *store.Store
	token string
	mux   *http.ServeMux
}

// New builds the relay handler over a store. The token is compared by
// exact string equality on every API request.
func New(st *store.Store, token string) *Server {
	s := &Server{
		store: st,
		token: token,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /read_file", s.handleReadFile)
	s.mux.HandleFunc("POST /save_file", s.handleSaveFile)
	s.mux.HandleFunc("POST /delete_file", s.handleDeleteFile)
	s.mux.HandleFunc("GET /list_commands", s.handleListCommands)
	s.mux.HandleFunc("GET /list_results", s.handleListResults)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	static, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /ui/", http.StripPrefix("/ui/", http.FileServer(http.FS(static))))

	return s
}

// ServeHTTP applies the auth gate before routing. UI and static asset
// paths and the health probe are exempt; everything else requires the
// bearer token.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.exempt(r.URL.Path) && !s.authorized(r) {
		logging.ServerWarn("unauthorized request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, envelope{Success: false, Error: "Unauthorized access"})
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) exempt(path string) bool {
	return strings.HasPrefix(path, "/ui") || strings.HasPrefix(path, "/static") || path == "/health"
}

func (s *Server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

// envelope is the JSON response shape shared by every API endpoint.
type envelope struct {
	Success bool     `json:"success"`
	Content string   `json:"content,omitempty"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("type")
	filename := r.URL.Query().Get("filename")

	data, err := s.store.Read(collection, filename)
	if err != nil {
		writeJSON(w, envelope{Success: false, Error: readError(err)})
		return
	}
	writeJSON(w, envelope{Success: true, Content: string(data)})
}

// mutateRequest is the body for save_file and delete_file.
type mutateRequest struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, envelope{Success: false, Error: "Invalid request body"})
		return
	}

	if err := s.store.Save(req.Type, req.Filename, []byte(req.Content)); err != nil {
		writeJSON(w, envelope{Success: false, Error: err.Error()})
		return
	}
	logging.Server("saved %s/%s", req.Type, req.Filename)
	writeJSON(w, envelope{Success: true})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, envelope{Success: false, Error: "Invalid request body"})
		return
	}

	if err := s.store.Delete(req.Type, req.Filename); err != nil {
		writeJSON(w, envelope{Success: false, Error: err.Error()})
		return
	}
	logging.Server("deleted %s/%s", req.Type, req.Filename)
	writeJSON(w, envelope{Success: true})
}

func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("type")
	s.list(w, collection)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	s.list(w, "result")
}

func (s *Server) list(w http.ResponseWriter, collection string) {
	names, err := s.store.List(collection)
	if err != nil {
		writeJSON(w, envelope{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, envelope{Success: true, Files: names})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, envelope{Success: true})
}

// readError keeps the "File not found" wording the executor and dashboard
// both match on, while passing other store errors through.
func readError(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "File not found"
	}
	return err.Error()
}
