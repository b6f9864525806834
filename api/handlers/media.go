package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/linesmerrill/studio-api/api"
	"github.com/linesmerrill/studio-api/config"
)

// MaxUploadBytes bounds a single media upload
const MaxUploadBytes = 50 << 20

// Media serves uploads of post and profile images
type Media struct {
	Uploader Uploader
}

// UploadHandler stores the multipart "file" field and returns its public url
func (m Media) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}
	if m.Uploader == nil {
		config.ErrorStatus("media uploads are not configured", http.StatusServiceUnavailable, w, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			config.ErrorStatus("file too large", http.StatusRequestEntityTooLarge, w, err)
			return
		}
		config.ErrorStatus("missing file", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		config.ErrorStatus("only images and videos can be uploaded", http.StatusUnsupportedMediaType, w, nil)
		return
	}

	media, err := m.Uploader.Upload(r.Context(), file)
	if err != nil {
		config.ErrorStatus("failed to upload media", http.StatusBadGateway, w, err)
		return
	}
	api.Logger(r.Context()).Infow("media uploaded", "publicId", media.PublicID, "bytes", media.Bytes)
	config.WriteJSON(w, http.StatusCreated, media)
}

// SignatureHandler signs a direct browser upload
func (m Media) SignatureHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}
	if m.Uploader == nil {
		config.ErrorStatus("media uploads are not configured", http.StatusServiceUnavailable, w, nil)
		return
	}
	sig, err := m.Uploader.Sign(time.Now())
	if err != nil {
		config.ErrorStatus("failed to sign upload", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteJSON(w, http.StatusOK, sig)
}
