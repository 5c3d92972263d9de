package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/resultstore"
)

func (s *Server) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		var sb strings.Builder
		sb.WriteString("zipsift server\n")
		sb.WriteString("━━━━━━━━━━━━━━\n\n")
		sb.WriteString("Upload a ZIP archive, get back a deduplicated and cleaned copy\n")
		sb.WriteString("plus a statistics report. Download links are single-use and\n")
		sb.WriteString("expire after a few minutes.\n\n")
		sb.WriteString("API Endpoints\n")
		sb.WriteString("━━━━━━━━━━━━━\n")
		sb.WriteString("  POST /analyze            Upload archive (multipart field \"archive\" or raw body)\n")
		sb.WriteString("  GET  /download/{token}   One-shot download of the cleaned archive\n")
		sb.WriteString("  GET  /status             Server and store status\n")
		if s.config.EnableWebSocket {
			sb.WriteString("  GET  /ws                 Live activity feed (WebSocket)\n")
		}
		sb.WriteString(fmt.Sprintf("\nVersion: %s\n", s.config.Version))

		w.Write([]byte(sb.String()))
	}
}

func (s *Server) handleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

		raw, fileName, err := readUpload(r)
		if err != nil {
			sendError(w, 400, fmt.Sprintf("invalid upload: %v", err))
			return
		}
		if len(raw) == 0 {
			sendError(w, 400, "empty upload")
			return
		}

		result, err := s.analyzer.Analyze(raw, fileName)
		if err != nil {
			sendError(w, 422, err.Error())
			return
		}

		token, err := s.storeResult(result)
		if err != nil {
			s.logger.Printf("failed to store result: %v", err)
			sendError(w, 500, "failed to store result")
			return
		}

		if s.hub != nil {
			s.hub.broadcast(AnalysisEvent{
				Type:             "analysis",
				FileName:         result.Report.FileName,
				TotalFiles:       result.Report.TotalFilesAnalyzed,
				FilesRemoved:     result.Report.TotalFilesRemoved,
				ReductionPercent: result.Report.ReductionPercent,
				At:               time.Now(),
			})
		}

		sendJSON(w, 200, AnalyzeResponse{
			Token:            token,
			DownloadPath:     "/download/" + token,
			ExpiresInSeconds: int(s.store.TTL().Seconds()),
			Report:           result.Report,
		})
	}
}

func (s *Server) handleDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")

		rec, err := s.store.Get(token)
		if err != nil {
			if errors.Is(err, resultstore.ErrNotFound) {
				sendError(w, 404, "link expired or already used")
				return
			}
			sendError(w, 500, "retrieval failed")
			return
		}

		name := downloadName(rec.Report.FileName)
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		w.Header().Set("Content-Length", strconv.Itoa(len(rec.Archive)))
		w.Write(rec.Archive)
	}
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, 200, StatusResponse{
			Server: ServerStatus{
				Version:          s.config.Version,
				UptimeSeconds:    int(time.Since(s.startTime).Seconds()),
				WebSocketEnabled: s.config.EnableWebSocket,
				MaxUploadBytes:   s.config.MaxUploadBytes,
			},
			Store: s.store.Stats(),
		})
	}
}

// storeResult mints a token and inserts the result, regenerating the
// token on the (effectively unreachable) collision.
func (s *Server) storeResult(result *analyze.Result) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		token, err := resultstore.NewToken()
		if err != nil {
			return "", err
		}

		err = s.store.Put(token, result.Report, result.Archive)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, resultstore.ErrTokenExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("token collision persisted across retries")
}

// readUpload extracts archive bytes and a filename hint from either a
// multipart form (field "archive") or a raw request body.
func readUpload(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("archive")
		if err != nil {
			return nil, "", fmt.Errorf("missing form field %q: %w", "archive", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, path.Base(header.Filename), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}

	name := "archive.zip"
	if q := r.URL.Query().Get("filename"); q != "" {
		name = path.Base(q)
	}
	return data, name, nil
}

// downloadName derives the cleaned-archive filename from the original hint.
func downloadName(original string) string {
	base := strings.TrimSuffix(path.Base(original), path.Ext(original))
	if base == "" || base == "." {
		base = "archive"
	}
	return "cleaned_" + base + ".zip"
}
