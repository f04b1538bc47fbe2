package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/app"

	"github.com/go-chi/chi/v5"
)

type reminderRequest struct {
	Tone string `json:"tone"`
}

// apiStartReminder handles POST /api/debtors/{id}/ai/reminder.
// The body is optional; a missing tone means polite.
func (h *Handler) apiStartReminder(w http.ResponseWriter, r *http.Request) {
	var body reminderRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	tone, err := ai.ParseTone(body.Tone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	id := pathID(r)
	if _, err := h.svc.GetDebtor(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.startTask(w, r, id, taskKindReminder, func(ctx context.Context) any {
		res, err := h.svc.GenerateReminder(ctx, id, string(tone))
		if err != nil {
			log.Printf("web: reminder for %s: %v", id, err)
			return app.ReminderResult{DebtorID: id, Tone: string(tone), Text: ai.ReminderFailedText}
		}
		return res
	})
}

// apiStartAnalysis handles POST /api/debtors/{id}/ai/analysis.
func (h *Handler) apiStartAnalysis(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if _, err := h.svc.GetDebtor(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.startTask(w, r, id, taskKindAnalysis, func(ctx context.Context) any {
		res, err := h.svc.AnalyzeDebtor(ctx, id)
		if err != nil {
			log.Printf("web: analysis for %s: %v", id, err)
			return app.AnalysisResult{DebtorID: id, Text: ai.AnalysisFailedText}
		}
		return res
	})
}

// startTask answers 202 with the new task, or 409 with the task already loading
// for this debtor and kind.
func (h *Handler) startTask(w http.ResponseWriter, r *http.Request, debtorID string, kind taskKind, run func(context.Context) any) {
	view, started := h.tasks.start(debtorID, kind, run)
	if !started {
		type response struct {
			errorResponse
			Task taskView `json:"task"`
		}
		writeJSONStatus(w, http.StatusConflict, response{
			errorResponse: errorResponse{
				Error:     "a " + string(kind) + " request is already in progress for this debtor",
				Code:      "CONFLICT",
				RequestID: requestIDFromContext(r.Context()),
			},
			Task: view,
		})
		return
	}
	writeJSONStatus(w, http.StatusAccepted, view)
}

// apiGetTask handles GET /api/ai/tasks/{taskID}.
func (h *Handler) apiGetTask(w http.ResponseWriter, r *http.Request) {
	view, ok := h.tasks.get(chi.URLParam(r, "taskID"))
	if !ok {
		writeError(w, r, "task not found or expired", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

// apiCancelTask handles DELETE /api/ai/tasks/{taskID}. Cancelling a finished
// task is a no-op that returns its final state.
func (h *Handler) apiCancelTask(w http.ResponseWriter, r *http.Request) {
	view, ok := h.tasks.cancel(chi.URLParam(r, "taskID"))
	if !ok {
		writeError(w, r, "task not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

// decodeOptionalJSON is decodeJSON for bodies that may be empty.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
