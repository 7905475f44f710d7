package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/civicpoint/taxassist-ai-platform/internal/bookings"
	"github.com/civicpoint/taxassist-ai-platform/internal/conversation"
	observemetrics "github.com/civicpoint/taxassist-ai-platform/internal/observability/metrics"
	"github.com/civicpoint/taxassist-ai-platform/pkg/logging"
)

// SessionHandler hosts the conversational session endpoints.
type SessionHandler struct {
	store    *conversation.SessionStore
	bookings *bookings.Service
	metrics  *observemetrics.ConversationMetrics
	logger   *logging.Logger
}

// SessionHandlerConfig carries the handler dependencies. Bookings and
// metrics are optional.
type SessionHandlerConfig struct {
	Store    *conversation.SessionStore
	Bookings *bookings.Service
	Metrics  *observemetrics.ConversationMetrics
	Logger   *logging.Logger
}

func NewSessionHandler(cfg SessionHandlerConfig) *SessionHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &SessionHandler{
		store:    cfg.Store,
		bookings: cfg.Bookings,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

type startSessionRequest struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	Message    string `json:"message"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	conversation.Result
	Booking *bookingPayload `json:"booking,omitempty"`
}

type bookingPayload struct {
	BookingID    string   `json:"booking_id,omitempty"`
	Reserved     bool     `json:"reserved"`
	Message      string   `json:"message,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// StartSession begins a new conversation and processes its first message.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Message == "" {
		http.Error(w, "session_id and message are required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res := h.store.Start(r.Context(), req.SessionID, req.CustomerID, req.Message)
	h.observe(res, start)

	writeJSON(w, http.StatusCreated, messageResponse{Result: res})
}

// ProcessMessage handles one inbound message for a session. An unknown
// session is started implicitly, so a dropped client can just keep talking.
func (h *SessionHandler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res := h.store.Process(r.Context(), sessionID, req.Message)
	h.observe(res, start)

	resp := messageResponse{Result: res}
	if h.bookings != nil && res.Stage == conversation.StageConfirmation && res.PreviousStage == conversation.StagePaymentProcessing {
		resp.Booking = h.reserve(r, sessionID)
		// A failed reservation must not be announced with the confirmation
		// text; the capacity message carries the alternatives instead.
		if resp.Booking != nil && !resp.Booking.Reserved && resp.Booking.Message != "" {
			resp.Response = resp.Booking.Message
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// reserve turns a just-confirmed session into a booking, honoring the daily
// capacity limit.
func (h *SessionHandler) reserve(r *http.Request, sessionID string) *bookingPayload {
	snap, ok := h.store.GetContext(sessionID)
	if !ok {
		return nil
	}
	b, check, err := h.bookings.ReserveFromSnapshot(r.Context(), snap)
	if err != nil {
		h.logger.Error("booking reservation failed", "session_id", sessionID, "error", err)
		return &bookingPayload{Reserved: false, Message: "We couldn't record your booking; our team will follow up."}
	}
	if !check.Valid {
		return &bookingPayload{
			Reserved:     false,
			Message:      check.Message,
			Alternatives: check.Alternatives,
		}
	}
	return &bookingPayload{BookingID: b.ID.String(), Reserved: true, Message: check.Message}
}

// GetSession returns the current snapshot of a session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	snap, ok := h.store.GetContext(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// EndSession terminates a session. Ending an unknown session succeeds.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.store.End(r.Context(), sessionID)
	h.metrics.SetActiveSessions(h.store.ActiveCount())
	w.WriteHeader(http.StatusNoContent)
}

// EscalateSession hands a session to a human specialist.
func (h *SessionHandler) EscalateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	res, ok := h.store.Escalate(r.Context(), sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.metrics.ObserveTransition(string(res.PreviousStage), string(res.Stage))
	writeJSON(w, http.StatusOK, messageResponse{Result: res})
}

// ListSessions returns snapshots of every live session. Admin only.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, _ *http.Request) {
	snaps := h.store.ActiveSnapshots()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(snaps),
		"sessions": snaps,
	})
}

// HealthCheck reports liveness.
func (h *SessionHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SessionHandler) observe(res conversation.Result, start time.Time) {
	h.metrics.ObserveMessage(string(res.Stage), string(res.Concern))
	if res.Stage != res.PreviousStage {
		h.metrics.ObserveTransition(string(res.PreviousStage), string(res.Stage))
	}
	h.metrics.ObserveMessageLatency(string(res.Stage), time.Since(start).Seconds())
	h.metrics.SetActiveSessions(h.store.ActiveCount())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
