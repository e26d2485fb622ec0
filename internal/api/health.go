package api

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Service   string `json:"service"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Service:   "authgate",
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}
