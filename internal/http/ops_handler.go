package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/example/class-scheduler/internal/persistence"
	"github.com/example/class-scheduler/internal/scheduler"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// ScheduleReader exposes read-only views of the live schedule.
type ScheduleReader interface {
	Sessions() []scheduler.Session
	Len() int
}

// JournalReader lists recorded commands, newest first.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]persistence.JournalEntry, error)
}

// OpsHandler serves the operations endpoints.
type OpsHandler struct {
	schedule  ScheduleReader
	journal   JournalReader
	responder responder
	logger    *slog.Logger
}

// NewOpsHandler constructs an OpsHandler. journal may be nil when journaling
// is disabled.
func NewOpsHandler(schedule ScheduleReader, journal JournalReader, logger *slog.Logger) *OpsHandler {
	logger = defaultLogger(logger)
	return &OpsHandler{
		schedule:  schedule,
		journal:   journal,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type healthDTO struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type sessionDTO struct {
	Day         string `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Room        string `json:"room"`
	ClassName   string `json:"class_name"`
	Description string `json:"description"`
}

type journalEntryDTO struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Arguments  string    `json:"arguments,omitempty"`
	Outcome    string    `json:"outcome"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Health reports liveness and the number of booked sessions.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthDTO{Status: "ok", Sessions: h.schedule.Len()})
}

// Sessions lists the schedule, optionally restricted to one class.
func (h *OpsHandler) Sessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	className := r.URL.Query().Get("class")
	sessions := h.schedule.Sessions()

	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		if className != "" && session.ClassName != className {
			continue
		}
		out = append(out, toSessionDTO(session))
	}
	handlerLogger(r.Context(), h.logger, "OpsHandler", "Sessions").DebugContext(r.Context(), "listed sessions", "count", len(out))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Journal lists recent journal entries.
func (h *OpsHandler) Journal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	if h.journal == nil {
		h.responder.writeError(ctx, w, http.StatusNotFound, errJournalDisabled)
		return
	}

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = min(parsed, maxJournalLimit)
	}

	entries, err := h.journal.Recent(ctx, limit)
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	out := make([]journalEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, journalEntryDTO{
			ID:         entry.ID,
			Command:    entry.Command,
			Arguments:  entry.Arguments,
			Outcome:    entry.Outcome,
			RecordedAt: entry.RecordedAt.UTC(),
		})
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, out)
}

func toSessionDTO(session scheduler.Session) sessionDTO {
	return sessionDTO{
		Day:         session.Day.String(),
		Start:       session.Start.String(),
		End:         session.End.String(),
		Room:        session.Room,
		ClassName:   session.ClassName,
		Description: session.Description,
	}
}
