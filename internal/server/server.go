// Package server is the update ingestion layer: it validates inbound webhook
// payloads, normalizes them into commands, runs the processor, and fans out
// post-commit work (replies, referrer notifications, journal writes).
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
)

// Gateway delivers messages to chats. Implemented by gateway.Telegram.
type Gateway interface {
	Send(ctx context.Context, chatID int64, key processor.TextKey, data map[string]any) error
	Acknowledge(ctx context.Context, callbackID string) error
	RegisterWebhook(ctx context.Context, url string) error
}

// Journal records committed money-moving facts. Nil disables journaling.
type Journal interface {
	RecordWithdrawal(ctx context.Context, chatID, amount int64) error
	RecordReferral(ctx context.Context, referrerID, invitedID, amount int64) error
}

// Deduper suppresses redelivered updates. Seen only checks; Mark is called
// after a successful commit, so failed attempts stay eligible for retry.
// Nil disables deduplication.
type Deduper interface {
	Seen(ctx context.Context, updateID int) bool
	Mark(ctx context.Context, updateID int)
}

type Handler struct {
	proc    *processor.Processor
	gateway Gateway
	journal Journal
	dedup   Deduper
}

func NewHandler(proc *processor.Processor, gw Gateway, jr Journal, dd Deduper) *Handler {
	return &Handler{proc: proc, gateway: gw, journal: jr, dedup: dd}
}

// NewRouter wires up all endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/setwebhook", h.SetWebhookHandler)
	r.Post("/webhook", h.WebhookHandler)

	return r
}

// NewServer returns a configured *http.Server for the webhook API.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// WebhookHandler handles POST /webhook. Invalid payloads are rejected before
// any transaction begins. After a commit the request always succeeds, even
// when outbound delivery fails.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	upd, err := parseUpdate(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update")
		return
	}

	cmd, callbackID, err := commandFromUpdate(upd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update")
		return
	}

	if h.dedup != nil && upd.UpdateID != 0 && h.dedup.Seen(r.Context(), upd.UpdateID) {
		// Still answer the callback so the client spinner stops.
		if callbackID != "" {
			if err := h.gateway.Acknowledge(r.Context(), callbackID); err != nil {
				slog.Warn("callback ack failed", "chat_id", cmd.ChatID, "error", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	result, err := h.proc.Handle(cmd)
	if err != nil {
		slog.Error("command failed", "chat_id", cmd.ChatID, "kind", cmd.Kind, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Everything below happened after commit: best-effort, never rolls back.
	ctx := context.WithoutCancel(r.Context())

	if h.dedup != nil && upd.UpdateID != 0 {
		h.dedup.Mark(ctx, upd.UpdateID)
	}

	if callbackID != "" {
		if err := h.gateway.Acknowledge(ctx, callbackID); err != nil {
			slog.Warn("callback ack failed", "chat_id", cmd.ChatID, "error", err)
		}
	}

	if err := h.gateway.Send(ctx, cmd.ChatID, result.Response.Key, result.Response.Data); err != nil {
		slog.Error("reply send failed", "chat_id", cmd.ChatID, "error", err)
	}
	for _, note := range result.Notifications {
		if err := h.gateway.Send(ctx, note.ChatID, note.Key, note.Data); err != nil {
			slog.Error("notification send failed", "chat_id", note.ChatID, "error", err)
		}
	}

	h.recordFacts(ctx, result)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) recordFacts(ctx context.Context, result processor.Result) {
	if h.journal == nil {
		return
	}
	if wr := result.Withdrawal; wr != nil {
		if err := h.journal.RecordWithdrawal(ctx, wr.ChatID, wr.Amount); err != nil {
			slog.Error("journal withdrawal failed", "chat_id", wr.ChatID, "error", err)
		}
	}
	if ref := result.Referral; ref != nil {
		if err := h.journal.RecordReferral(ctx, ref.ReferrerID, ref.InvitedUserID, ref.Amount); err != nil {
			slog.Error("journal referral failed", "referrer_id", ref.ReferrerID, "error", err)
		}
	}
}

// SetWebhookHandler handles GET /setwebhook?url=... for webhook (re)registration.
func (h *Handler) SetWebhookHandler(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}

	if err := h.gateway.RegisterWebhook(r.Context(), url); err != nil {
		slog.Error("webhook registration failed", "url", url, "error", err)
		writeError(w, http.StatusBadGateway, "webhook registration failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "webhook": url})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var errInvalidUpdate = errors.New("update missing required fields")
