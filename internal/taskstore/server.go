package taskstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dohr-michael/taskchat/internal/gateway"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

// BasePath is where the Tasks collection is mounted.
const BasePath = "/api/Tasks"

// Server serves the Tasks collection.
type Server struct {
	*gateway.Server
	store   *Store
	metrics *metrics
	logger  *slog.Logger
}

// NewServer mounts the collection on a gateway server listening on addr.
func NewServer(store *Store, addr string, registry *prometheus.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Server:  gateway.NewServer("taskstore", addr, registry, logger),
		store:   store,
		metrics: newMetrics(registry),
		logger:  logger,
	}

	s.Router().Route(BasePath, func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
		r.Patch("/{id}", s.handlePatch)
	})
	return s
}

type createRequest struct {
	TaskText  string `json:"TaskText"`
	Completed bool   `json:"Completed"`
	UserID    string `json:"UserId"`
}

type patchRequest struct {
	Completed *bool `json:"Completed"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	s.reply(w, "list", http.StatusOK, tasks.Listing{Value: list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "get")
	if !ok {
		return
	}
	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	s.reply(w, "get", http.StatusOK, t)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, "create", "invalid JSON body")
		return
	}
	text := strings.TrimSpace(req.TaskText)
	if text == "" {
		s.reject(w, "create", "TaskText is required")
		return
	}
	if strings.ContainsAny(text, "\r\n") || strings.Contains(text, " [") {
		s.reject(w, "create", `TaskText must be a single line without " ["`)
		return
	}

	t, err := s.store.Create(r.Context(), text, req.Completed, req.UserID)
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	s.logger.Debug("task created", "id", t.ID)
	s.reply(w, "create", http.StatusCreated, t)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "delete")
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, "delete", err)
		return
	}
	s.metrics.observe("delete", http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "patch")
	if !ok {
		return
	}
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Completed == nil {
		s.reject(w, "patch", "Completed is required")
		return
	}
	t, err := s.store.SetCompleted(r.Context(), id, *req.Completed)
	if err != nil {
		s.fail(w, "patch", err)
		return
	}
	s.reply(w, "patch", http.StatusOK, t)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, op string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		s.reject(w, op, "invalid task id")
		return 0, false
	}
	return id, true
}

func (s *Server) reply(w http.ResponseWriter, op string, code int, v any) {
	s.metrics.observe(op, code)
	gateway.WriteJSON(w, code, v)
}

func (s *Server) reject(w http.ResponseWriter, op, msg string) {
	s.metrics.observe(op, http.StatusBadRequest)
	gateway.WriteError(w, http.StatusBadRequest, msg)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		s.metrics.observe(op, http.StatusNotFound)
		gateway.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("task store failure", "op", op, "error", err)
	s.metrics.observe(op, http.StatusInternalServerError)
	gateway.WriteError(w, http.StatusInternalServerError, "internal error")
}
