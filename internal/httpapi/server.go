// Package httpapi exposes a session over HTTP as JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"tasklists/internal/liststore"
	"tasklists/internal/service"
)

// WarningHeader carries a persistence failure on an otherwise successful
// response.
const WarningHeader = "X-Persist-Warning"

// Server handles HTTP requests for lists and tasks.
type Server struct {
	svc    service.Service
	log    *slog.Logger
	router *mux.Router
}

// New creates a Server and registers its routes.
func New(svc service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{svc: svc, log: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	s.router.HandleFunc("/lists", s.createList).Methods(http.MethodPost)
	s.router.HandleFunc("/lists/{listID}", s.renameList).Methods(http.MethodPut)
	s.router.HandleFunc("/lists/{listID}", s.deleteList).Methods(http.MethodDelete)
	s.router.HandleFunc("/lists/{listID}/activate", s.activateList).Methods(http.MethodPost)
	s.router.HandleFunc("/tasks", s.addTask).Methods(http.MethodPost)
	s.router.HandleFunc("/tasks/{taskID}", s.deleteTask).Methods(http.MethodDelete)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type nameRequest struct {
	Name string `json:"name"`
}

type taskRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// getState handles GET /state.
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.svc.Snapshot(), nil)
}

// createList handles POST /lists.
func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, s.svc.CreateList(intentContext(r), req.Name))
}

// renameList handles PUT /lists/{listID}.
func (s *Server) renameList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "listID")
	if !ok {
		return
	}
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, s.svc.RenameList(intentContext(r), id, req.Name))
}

// deleteList handles DELETE /lists/{listID}.
func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "listID")
	if !ok {
		return
	}
	s.writeOutcome(w, s.svc.DeleteList(intentContext(r), id))
}

// activateList handles POST /lists/{listID}/activate.
func (s *Server) activateList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "listID")
	if !ok {
		return
	}
	s.writeOutcome(w, s.svc.SetActiveList(intentContext(r), id))
}

// addTask handles POST /tasks.
func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, s.svc.AddTask(intentContext(r), req.Text, req.Category))
}

// deleteTask handles DELETE /tasks/{taskID}.
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}
	s.writeOutcome(w, s.svc.DeleteTask(intentContext(r), id))
}

func (s *Server) writeOutcome(w http.ResponseWriter, o service.Outcome) {
	s.writeState(w, o.State, o.SaveErr)
}

func (s *Server) writeState(w http.ResponseWriter, st liststore.AppState, saveErr error) {
	if saveErr != nil {
		w.Header().Set(WarningHeader, saveErr.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Warn("write response", "err", err)
	}
}

// intentContext keeps the request's values but not its cancellation, so a
// client that hangs up does not abort the save of a committed change.
func intentContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (liststore.ID, bool) {
	id, err := liststore.ParseID(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return liststore.NoID, false
	}
	return id, true
}
