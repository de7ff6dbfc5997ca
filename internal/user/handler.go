package user

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
)

type ServiceAPI interface {
	GetByID(id int64) (*User, error)
	Update(id int64, dto UpdateUserDTO) (*User, error)
	UploadAvatar(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	MaxUploadSize int64
}

func NewHandler(svc ServiceAPI, maxUploadSize int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		MaxUploadSize: maxUploadSize,
	}
}

// GetUser handles GET /user/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.Logger.Error("GetUser: invalid user ID", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	u, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetUser: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /user/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.Logger.Error("UpdateUser: invalid user ID", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateUser: user updated", "user_id", u.ID)
	h.WriteJSON(w, http.StatusOK, u)
}

// UploadAvatar handles POST /upload-avatar with a multipart "file" field.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadSize > 0 {
		// one extra megabyte for the multipart envelope
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize+1<<20)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Logger.Error("UploadAvatar: invalid multipart body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Error("UploadAvatar: missing file field", "error", err)
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType, err := detectContentType(file, header)
	if err != nil {
		h.Logger.Error("UploadAvatar: failed to read file", "error", err)
		h.WriteError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	url, err := h.Service.UploadAvatar(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		h.Logger.Error("UploadAvatar: service error", "filename", header.Filename, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AvatarResponse{AvatarURL: url})
}

// detectContentType prefers the part header and sniffs the first bytes when
// the client sent none.
func detectContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
