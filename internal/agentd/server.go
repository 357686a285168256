package agentd

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dohr-michael/taskchat/internal/callbacks"
	"github.com/dohr-michael/taskchat/internal/gateway"
	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/threads"
)

// ChatPath is where the assistant endpoint is mounted.
const ChatPath = "/chat"

const (
	errInvalidRequest = "Invalid JSON in request."
	errInvalidReply   = "Invalid response from assistant."
	errBrainDown      = "Assistant is unavailable right now."
)

// Config wires a Server.
type Config struct {
	Addr     string
	Brain    Brain
	Executor *Executor
	Threads  threads.Store
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Server answers POST /chat.
type Server struct {
	*gateway.Server
	brain   Brain
	exec    *Executor
	threads threads.Store
	metrics *metrics
	logger  *slog.Logger
}

type chatRequest struct {
	Message  string  `json:"message"`
	ThreadID *string `json:"thread_id"`
}

// NewServer creates the assistant server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		Server:  gateway.NewServer("agentd", cfg.Addr, cfg.Registry, cfg.Logger),
		brain:   cfg.Brain,
		exec:    cfg.Executor,
		threads: cfg.Threads,
		metrics: newMetrics(cfg.Registry),
		logger:  cfg.Logger.With("brain", cfg.Brain.Name()),
	}
	s.Router().Post(ChatPath, s.handleChat)
	return s
}

// ModelObserver feeds model call events into the server's metrics; pass it to
// callbacks.NewModelLogHandler.
func (s *Server) ModelObserver() callbacks.Observer {
	return func(model string, phase callbacks.Phase) {
		s.metrics.modelCall(model, string(phase))
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.request("bad_request")
		gateway.WriteError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	ctx := r.Context()

	thread, err := s.thread(req.ThreadID)
	if err != nil {
		s.logger.Error("thread store failure", "error", err)
		s.metrics.request("internal")
		gateway.WriteError(w, http.StatusInternalServerError, "Thread store unavailable.")
		return
	}
	history, err := s.threads.Messages(thread.ID)
	if err != nil {
		s.logger.Warn("load thread history failed", "thread_id", thread.ID, "error", err)
	}

	in := Input{
		Message: req.Message,
		Thread:  thread,
		History: history,
		Tasks:   s.exec.Lines(ctx),
	}

	decision, err := s.brain.Decide(ctx, in)
	if err != nil {
		s.logger.Warn("brain failed", "thread_id", thread.ID, "error", err)
		s.metrics.brainError(s.brain.Name())
		s.record(thread.ID, req.Message, "")
		msg := errBrainDown
		if errors.Is(err, ErrInvalidReply) {
			msg = errInvalidReply
		}
		s.respond(w, reply.Response{Error: msg, ThreadID: thread.ID})
		return
	}

	raw, _ := json.Marshal(decision)
	s.record(thread.ID, req.Message, string(raw))

	resp := s.exec.Execute(ctx, decision)
	resp.ThreadID = thread.ID
	s.logger.Debug("chat handled", "thread_id", thread.ID, "action", decision.Action)
	s.respond(w, resp)
}

// thread resumes the requested thread, or starts a new one when the id is
// absent or unknown.
func (s *Server) thread(id *string) (*threads.Thread, error) {
	if id != nil && *id != "" {
		t, err := s.threads.Get(*id)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, threads.ErrNotFound) {
			return nil, err
		}
		s.logger.Debug("unknown thread, starting fresh", "thread_id", *id)
	}
	return s.threads.Create()
}

func (s *Server) record(threadID, user, assistant string) {
	msgs := []threads.Message{threads.UserMessage(user)}
	if assistant != "" {
		msgs = append(msgs, threads.AssistantMessage(assistant))
	}
	if err := s.threads.Append(threadID, msgs...); err != nil {
		s.logger.Warn("append thread failed", "thread_id", threadID, "error", err)
	}
}

func (s *Server) respond(w http.ResponseWriter, resp reply.Response) {
	if resp.Version == 0 {
		resp.Version = reply.SchemaVersion
	}
	s.metrics.request(string(reply.Classify(resp).Intent))
	gateway.WriteJSON(w, http.StatusOK, resp)
}
