package news

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
)

type ServiceAPI interface {
	List(filter ListFilter) ([]*NewsItem, error)
	GetByID(id int64) (*NewsItem, error)
	Create(dto CreateNewsDTO) (*NewsItem, error)
	Update(id int64, dto UpdateNewsDTO) (*NewsItem, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListNews handles GET /news?from&to
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	var (
		filter ListFilter
		err    error
	)
	if filter.From, err = parseInstant(r.URL.Query().Get("from")); err != nil {
		h.Logger.Error("ListNews: invalid from", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid from")
		return
	}
	if filter.To, err = parseInstant(r.URL.Query().Get("to")); err != nil {
		h.Logger.Error("ListNews: invalid to", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid to")
		return
	}

	items, err := h.Service.List(filter)
	if err != nil {
		h.Logger.Error("ListNews: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

// GetNews handles GET /news/{id}
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid news ID")
		return
	}

	item, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetNews: service error", "news_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

// CreateNews handles POST /news
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var dto CreateNewsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("CreateNews: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateNews: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, item)
}

// UpdateNews handles PUT /news/{id}
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid news ID")
		return
	}

	var dto UpdateNewsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("UpdateNews: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateNews: service error", "news_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

// DeleteNews handles DELETE /news/{id}
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid news ID")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteNews: service error", "news_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, struct{}{})
}

// parseInstant accepts an RFC 3339 timestamp or a bare date (midnight UTC).
func parseInstant(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := calendar.ParseTimestamp(raw); err == nil {
		return &t, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	t := d.Time
	return &t, nil
}
