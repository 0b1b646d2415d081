package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"reputation-bot/internal/engine"
	"reputation-bot/internal/ledger"
	"reputation-bot/internal/schedule"

	"github.com/go-chi/chi/v5"
)

// Pinger is implemented by snapshot backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	engine    *engine.Engine
	scheduler *schedule.Scheduler
	pinger    Pinger
}

func NewAdminHandlers(eng *engine.Engine, sched *schedule.Scheduler, pinger Pinger) *AdminHandlers {
	return &AdminHandlers{engine: eng, scheduler: sched, pinger: pinger}
}

// actor is the identity admin API calls act as.
func (h *AdminHandlers) actor() int64 {
	return h.engine.AdminID()
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.pinger != nil {
			if err := h.pinger.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "store": "down"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "store": "up", "sellers": len(h.engine.Sellers())})
	}
}

func (h *AdminHandlers) AddSeller() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tag string `json:"tag"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tag, err := h.engine.AddSeller(h.actor(), body.Tag)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "seller": tag})
	}
}

func (h *AdminHandlers) RemoveSeller() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := h.engine.RemoveSeller(h.actor(), chi.URLParam(r, "tag"))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "seller": tag})
	}
}

func (h *AdminHandlers) SellerHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := chi.URLParam(r, "tag")
		writeJSON(w, http.StatusOK, map[string]any{"seller": tag, "items": h.engine.VoteHistory(tag)})
	}
}

func (h *AdminHandlers) Complaints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch status := r.URL.Query().Get("status"); status {
		case "", string(engine.ComplaintPending):
			writeJSON(w, http.StatusOK, map[string]any{"status": engine.ComplaintPending, "items": h.engine.PendingComplaints()})
		case string(engine.ComplaintApproved):
			writeJSON(w, http.StatusOK, map[string]any{"status": engine.ComplaintApproved, "items": h.engine.ApprovedComplaints()})
		default:
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
		}
	}
}

func (h *AdminHandlers) ApproveComplaint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "complaint_id"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		c, err := h.engine.ApproveComplaint(h.actor(), id)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "complaint": c})
	}
}

func (h *AdminHandlers) Accounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		all := h.engine.Accounts()
		items := []engine.Account{}
		if offset < len(all) {
			items = all[offset:min(len(all), offset+limit)]
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(all), "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Topup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID int64 `json:"user_id"`
			Amount int64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		bal, err := h.engine.AddPoints(h.actor(), body.UserID, body.Amount)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user_id": body.UserID, "balance": bal})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		q := ledger.Query{Limit: limit, Offset: offset}
		if v := r.URL.Query().Get("user_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			q.UserID = id
		}
		items := h.engine.Ledger().List(q)
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

// Announcement edits the vote prompt. Omitted fields are left unchanged;
// an empty media_id clears the media.
func (h *AdminHandlers) Announcement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text      *string `json:"text"`
			MediaID   *string `json:"media_id"`
			MediaType string  `json:"media_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Text == nil && body.MediaID == nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		a := h.engine.Announcement()
		var err error
		if body.Text != nil {
			if a, err = h.engine.SetAnnouncement(h.actor(), *body.Text); err != nil {
				writeEngineError(w, r, err)
				return
			}
		}
		if body.MediaID != nil {
			if *body.MediaID != "" && !validMediaType(body.MediaType) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_media_type")
				return
			}
			if a, err = h.engine.SetAnnouncementMedia(h.actor(), *body.MediaID, body.MediaType); err != nil {
				writeEngineError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func validMediaType(t string) bool {
	return t == "photo" || t == "animation" || t == "video"
}

func (h *AdminHandlers) Jobs() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.scheduler.Jobs()})
	}
}

func (h *AdminHandlers) RunJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "job")
		if !slices.Contains(h.scheduler.Jobs(), name) {
			WriteHTTPError(w, http.StatusNotFound, "unknown_job")
			return
		}
		if err := h.scheduler.RunNow(r.Context(), name); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "job_failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "job": name})
	}
}
