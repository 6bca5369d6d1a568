package health

import (
	"net/http"

	"github.com/corray333/cloud-kitchen/internal/transport/http/respond"
)

type healthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{Status: "healthy", App: "Cloud Kitchen"})
}
