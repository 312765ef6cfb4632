package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/voskhttp/voskhttp/internal/media"
	"github.com/voskhttp/voskhttp/internal/stt"
	"github.com/voskhttp/voskhttp/internal/transcribe"
)

type TranscribeHandler struct {
	svc       *transcribe.Service
	maxUpload int64
}

func NewTranscribeHandler(svc *transcribe.Service, maxUpload int64) *TranscribeHandler {
	if maxUpload <= 0 {
		maxUpload = 512 << 20
	}
	return &TranscribeHandler{svc: svc, maxUpload: maxUpload}
}

// RecognizePath serves the legacy root endpoint: the request body is a
// filesystem path to an audio file, the response is the monologues document.
func (h *TranscribeHandler) RecognizePath(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unreadable request body"})
		return
	}

	path := strings.TrimSpace(string(body))
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "empty request body"})
		return
	}

	doc, err := h.svc.TranscribeFile(r.Context(), path, "")
	if err != nil {
		h.respondTranscribeError(w, path, err)
		return
	}

	slog.Info("request handled", "path", path, "status", http.StatusOK)
	writeJSON(w, http.StatusOK, doc)
}

type transcriptionRequest struct {
	FilePath string `json:"file_path"`
	Language string `json:"language,omitempty"`
}

// Create transcribes synchronously. It accepts either a JSON body naming a
// server-local file or a multipart upload under the "file" field.
func (h *TranscribeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createFromUpload(w, r)
		return
	}

	var req transcriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "file_path required")
		return
	}

	doc, err := h.svc.TranscribeFile(r.Context(), req.FilePath, req.Language)
	if err != nil {
		h.respondTranscribeError(w, req.FilePath, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *TranscribeHandler) createFromUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "voskhttp-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}
	tmp.Close()

	doc, err := h.svc.TranscribeFile(r.Context(), tmp.Name(), r.FormValue("language"))
	if err != nil {
		h.respondTranscribeError(w, header.Filename, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *TranscribeHandler) respondTranscribeError(w http.ResponseWriter, path string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("file not found", "path", path)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("File not found: %s", path)})
	case errors.Is(err, stt.ErrEmptyAudio), errors.Is(err, media.ErrUndecodable):
		slog.Warn("invalid audio file", "path", path)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Invalid file: %s", path)})
	case errors.Is(err, media.ErrFFmpegNotFound):
		slog.Error("ffmpeg missing, please install and try again")
		writeError(w, http.StatusInternalServerError, "audio decoder unavailable")
	default:
		slog.Error("transcription failed", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "transcription failed")
	}
}
