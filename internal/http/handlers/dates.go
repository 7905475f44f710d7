package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/civicpoint/taxassist-ai-platform/internal/conversation"
	observemetrics "github.com/civicpoint/taxassist-ai-platform/internal/observability/metrics"
)

// DateHandler exposes the date resolver directly, for client-side previews
// and operational debugging of date expressions.
type DateHandler struct {
	resolver *conversation.DateResolver
	metrics  *observemetrics.ConversationMetrics
}

func NewDateHandler(resolver *conversation.DateResolver, metrics *observemetrics.ConversationMetrics) *DateHandler {
	return &DateHandler{resolver: resolver, metrics: metrics}
}

type resolveDateRequest struct {
	Input string `json:"input"`
}

type resolveDateResponse struct {
	Success           bool     `json:"success"`
	Valid             bool     `json:"valid"`
	Date              string   `json:"date,omitempty"`
	Strategy          string   `json:"strategy,omitempty"`
	DisplayLabel      string   `json:"display_label,omitempty"`
	DaysFromNow       int      `json:"days_from_now"`
	IsWeekend         bool     `json:"is_weekend"`
	AvailableSlots    []string `json:"available_slots,omitempty"`
	ValidationMessage string   `json:"validation_message,omitempty"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

// ResolveDate parses one natural-language date expression.
func (h *DateHandler) ResolveDate(w http.ResponseWriter, r *http.Request) {
	var req resolveDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	res := h.resolver.Resolve(req.Input, time.Now())
	if res.Success {
		h.metrics.ObserveDateResolution(res.Strategy, res.Valid)
	}

	resp := resolveDateResponse{
		Success:           res.Success,
		Valid:             res.Valid,
		Strategy:          res.Strategy,
		DisplayLabel:      res.DisplayLabel,
		DaysFromNow:       res.DaysFromNow,
		IsWeekend:         res.IsWeekend,
		AvailableSlots:    res.AvailableSlots,
		ValidationMessage: res.ValidationMessage,
		Suggestions:       res.Suggestions,
	}
	if res.Success {
		resp.Date = res.Date.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, resp)
}
