package httptransport

import (
	"net/http"
	"strconv"

	"reputation-bot/internal/engine"

	"github.com/go-chi/chi/v5"
)

const (
	defaultBoardSize = 10
	maxBoardSize     = 100
)

type PublicHandlers struct {
	engine *engine.Engine
}

func NewPublicHandlers(eng *engine.Engine) *PublicHandlers {
	return &PublicHandlers{engine: eng}
}

// boardParams reads window (default weekly) and limit (default 10, max 100).
func boardParams(r *http.Request) (engine.Window, int, bool) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		raw = string(engine.WindowWeekly)
	}
	w, err := engine.ParseWindow(raw)
	if err != nil {
		return "", 0, false
	}
	limit := defaultBoardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return "", 0, false
		}
		limit = min(n, maxBoardSize)
	}
	return w, limit, true
}

func (h *PublicHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, limit, ok := boardParams(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items, err := h.engine.TopSellers(window, limit)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"window": window, "items": items})
	}
}

func (h *PublicHandlers) Chatters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, limit, ok := boardParams(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items, err := h.engine.TopChatters(window, limit)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"window": window, "items": items})
	}
}

func (h *PublicHandlers) Sellers() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.engine.Sellers()})
	}
}

func (h *PublicHandlers) SellerInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := h.engine.SellerInfo(chi.URLParam(r, "tag"))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func (h *PublicHandlers) Polls() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.engine.Polls()})
	}
}

func (h *PublicHandlers) Poll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.engine.Poll(chi.URLParam(r, "poll_id"))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *PublicHandlers) Announcement() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.engine.Announcement())
	}
}
