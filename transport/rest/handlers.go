package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const protocolVersion = 1

const defaultLeaderboardLimit = 10

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// configHandler exposes the game rules a client needs before connecting.
func (that *Server) configHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string]any{
		"minPlayers":         that.game.MinPlayers,
		"maxPlayers":         that.game.MaxPlayers,
		"allowedPunctuation": that.game.AllowedPunctuation,
		"protocolVersion":    protocolVersion,
	})
}

func (that *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if that.leaderboard == nil {
		http.Error(w, "leaderboard is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	words, err := that.leaderboard.TopWords(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to read leaderboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	that.writeJSON(w, http.StatusOK, map[string]any{"words": words})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
