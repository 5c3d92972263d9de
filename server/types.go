package server

import (
	"time"

	"github.com/zipsift/zipsift/analyze"
)

// AnalyzeResponse is the POST /analyze response.
type AnalyzeResponse struct {
	Token            string          `json:"token"`
	DownloadPath     string          `json:"download_path"`
	ExpiresInSeconds int             `json:"expires_in_seconds"`
	Report           *analyze.Report `json:"report"`
}

// StatusResponse is the GET /status response.
type StatusResponse struct {
	Server ServerStatus           `json:"server"`
	Store  map[string]interface{} `json:"store"`
}

// ServerStatus contains server information.
type ServerStatus struct {
	Version          string `json:"version"`
	UptimeSeconds    int    `json:"uptime_seconds"`
	WebSocketEnabled bool   `json:"websocket_enabled"`
	MaxUploadBytes   int64  `json:"max_upload_bytes"`
}

// AnalysisEvent is broadcast over the websocket feed after each
// completed analysis. Carries summary figures only, never payload bytes.
type AnalysisEvent struct {
	Type             string    `json:"type"`
	FileName         string    `json:"file_name"`
	TotalFiles       int       `json:"total_files"`
	FilesRemoved     int       `json:"files_removed"`
	ReductionPercent float64   `json:"reduction_percent"`
	At               time.Time `json:"at"`
}
