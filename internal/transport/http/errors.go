package httptransport

import (
	"net/http"

	"reputation-bot/internal/engine"

	"github.com/rs/zerolog/log"
)

func statusForKind(k engine.Kind) int {
	switch k {
	case engine.KindNotAuthorized:
		return http.StatusForbidden
	case engine.KindUnknownEntity:
		return http.StatusNotFound
	case engine.KindCooldownActive:
		return http.StatusTooManyRequests
	case engine.KindInvalidArgument:
		return http.StatusBadRequest
	case engine.KindConflict:
		return http.StatusConflict
	case engine.KindExpired:
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

// writeEngineError maps an engine error to its status and stable code.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	code := engine.CodeOf(err)
	if code == "" {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected engine error")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	WriteHTTPError(w, statusForKind(engine.KindOf(err)), code)
}
