package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/engine"
)

type commandRequest struct {
	Text string `json:"text"`
}

type commandResponse struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandHandler serves POST /process for callers that do not hold a
// WebSocket session. The dispatcher always answers with a string, so the
// only error cases here are transport-level.
func CommandHandler(dispatcher *engine.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		reply := dispatcher.Process(req.Text)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(commandResponse{
			Reply:     reply,
			Timestamp: time.Now(),
		}); err != nil {
			zap.L().Error("Failed to encode command response", zap.Error(err))
		}
	}
}

// HealthCheckHandler reports liveness.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
