package gateway

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kyoshi/internal/ident"
	"github.com/hyperjump/kyoshi/internal/web"
	"go.uber.org/zap"
)

// uploadMaxBytes caps multipart upload memory buffering.
const uploadMaxBytes = 64 << 20

// extByContentType maps upload MIME types to store extensions, for uploads
// whose filename carries no usable extension.
var extByContentType = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"audio/wav":       ".wav",
	"audio/x-wav":     ".wav",
	"audio/wave":      ".wav",
	"audio/mpeg":      ".mp3",
	"audio/mp4":       ".m4a",
	"text/plain":      ".txt",
}

// acceptedExts is everything the agents can consume downstream.
var acceptedExts = map[string]bool{
	".pdf": true, ".pptx": true, ".docx": true, ".xlsx": true,
	".txt": true, ".md": true,
	".png": true, ".jpg": true, ".jpeg": true,
	".wav": true, ".mp3": true, ".m4a": true,
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMaxBytes); err != nil {
		web.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		web.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	ext := uploadExt(header.Filename, header.Header.Get("Content-Type"))
	if ext == "" {
		web.RespondError(w, http.StatusUnsupportedMediaType, "unsupported file type")
		return
	}

	id := r.FormValue("file_id")
	if id == "" {
		id = ident.New("file")
	}

	path, err := s.store.WriteFrom(id+ext, file)
	if err != nil {
		s.logger.Error("upload write failed", zap.Error(err))
		web.RespondError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	s.logger.Debug("stored upload", zap.String("file_id", id), zap.String("path", path))

	web.RespondJSON(w, http.StatusOK, map[string]string{
		"file_id": id,
		"url":     s.store.PublicURL(path),
	})
}

// uploadExt infers the stored extension: the filename's own extension wins
// when accepted, then the declared content type.
func uploadExt(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); acceptedExts[ext] {
		return ext
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return extByContentType[strings.TrimSpace(contentType)]
}
