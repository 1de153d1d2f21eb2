package rest

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/ibl-data/courtsync/internal/config"
	"github.com/ibl-data/courtsync/internal/store"
)

// Handler serves the persisted tables.
type Handler struct {
	cfg *config.Config
}

// NewHandler creates a new handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "courtsync",
		"league":  h.cfg.LeagueName,
	})
}

// GetPlayerAverages returns the player-averages table.
func (h *Handler) GetPlayerAverages(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, h.cfg.TablePath("player_averages"))
}

// GetTeamAverages returns the team-averages table.
func (h *Handler) GetTeamAverages(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, h.cfg.TablePath("team_averages"))
}

// GetOpponentAverages returns the opponent-averages table.
func (h *Handler) GetOpponentAverages(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, h.cfg.TablePath("opponent_averages"))
}

// GetSchedule returns the games schedule table.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, h.cfg.GamePath("games_schedule"))
}

// GetStatus reports which datasets exist and when each was last written.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	tables := map[string]string{
		"player_details":    h.cfg.TablePath("player_details"),
		"player_history":    h.cfg.TablePath("player_history"),
		"player_averages":   h.cfg.TablePath("player_averages"),
		"team_averages":     h.cfg.TablePath("team_averages"),
		"opponent_averages": h.cfg.TablePath("opponent_averages"),
		"games_schedule":    h.cfg.GamePath("games_schedule"),
		"game_quarters":     h.cfg.GamePath("game_quarters"),
		"game_player_stats": h.cfg.GamePath("game_player_stats"),
		"game_team_stats":   h.cfg.GamePath("game_team_stats"),
	}

	type tableStatus struct {
		Exists    bool   `json:"exists"`
		SizeBytes int64  `json:"size_bytes,omitempty"`
		UpdatedAt string `json:"updated_at,omitempty"`
	}

	status := make(map[string]tableStatus, len(tables))
	for name, path := range tables {
		info, err := os.Stat(path)
		if err != nil {
			status[name] = tableStatus{Exists: false}
			continue
		}
		status[name] = tableStatus{
			Exists:    true,
			SizeBytes: info.Size(),
			UpdatedAt: info.ModTime().Format(time.RFC3339),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league": h.cfg.LeagueName,
		"tables": status,
	})
}

// serveTable loads a CSV table and returns its rows as JSON objects.
func (h *Handler) serveTable(w http.ResponseWriter, path string) {
	rows, err := store.Load(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read table", err)
		return
	}
	if rows == nil {
		respondError(w, http.StatusNotFound, "Table not generated yet", nil)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
