package dto

import (
	"time"

	"inference-service/internal/core/domain"
)

type ModelStatusEntry struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	TrainingDate string             `json:"training_date"`
	Available    bool               `json:"available"`
	Metrics      map[string]float64 `json:"metrics"`
}

type StatusResponse struct {
	LicenseValid   bool               `json:"license_valid"`
	LicenseExpires *string            `json:"license_expires"`
	Models         []ModelStatusEntry `json:"models"`
	Timestamp      string             `json:"timestamp"`
}

func ToStatusResponse(r *domain.StatusReport) StatusResponse {
	resp := StatusResponse{
		LicenseValid: r.LicenseValid,
		Models:       make([]ModelStatusEntry, 0, len(r.Models)),
		Timestamp:    r.Timestamp.Format(time.RFC3339),
	}
	if r.LicenseExpires != nil {
		expires := r.LicenseExpires.Format(time.RFC3339)
		resp.LicenseExpires = &expires
	}
	for _, m := range r.Models {
		resp.Models = append(resp.Models, ModelStatusEntry{
			Name:         m.Name,
			Version:      m.Version,
			TrainingDate: m.TrainingDate,
			Available:    m.Available,
			Metrics:      m.Metrics,
		})
	}
	return resp
}

type LogPredictionResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type UpdateCheckResponse struct {
	Status           string   `json:"status"`
	UpdatesAvailable []string `json:"updates_available"`
	NextCheck        string   `json:"next_check"`
}

type DriftStatusResponse struct {
	ModelsDriftDetected []string `json:"models_drift_detected"`
	RequiresRetraining  bool     `json:"requires_retraining"`
	NextCheck           string   `json:"next_check"`
}

type HealthResponse struct {
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	ModelsLoaded []string `json:"models_loaded"`
}
