package bill

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/receipt-splitter/internal/split"
)

// maxUploadSize caps uploads at 50MB to handle high-resolution phone photos
const maxUploadSize = int64(50 << 20)

// writeError writes a JSON error response the way the frontend expects it
func writeError(w http.ResponseWriter, detail string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleHealth is the liveness endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "message": "Application is running"})
}

// handleProcessReceipt accepts a multipart receipt upload and returns the
// normalized extraction
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		detail := "Error parsing form"
		if err.Error() == "http: request body too large" {
			detail = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, detail, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), header.Filename)

	result, err := s.service.ProcessReceipt(header.Filename, data, contentType)
	if err != nil {
		var notReceipt *NotAReceiptError
		if errors.As(err, &notReceipt) {
			writeError(w, notReceipt.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeError(w, "Error processing receipt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

// splitRequest mirrors the client payload for a split calculation
type splitRequest struct {
	Items        []split.Item `json:"items"`
	Persons      []string     `json:"persons"`
	ReceiptTotal float64      `json:"receipt_total"`
}

// handleCalculateSplit computes the per-person settlement
func (s *Server) handleCalculateSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.service.CalculateSplit(req.Items, req.Persons, req.ReceiptTotal)
	if err != nil {
		if errors.Is(err, split.ErrEmptyParticipants) {
			writeError(w, "No persons provided for split", http.StatusBadRequest)
			return
		}
		slog.Error("Error calculating split", "error", err)
		writeError(w, "Error calculating split: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

// detectContentType falls back to the file extension when the client didn't
// send a usable Content-Type
func detectContentType(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}
