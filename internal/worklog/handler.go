package worklog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
)

type ServiceAPI interface {
	List(filter ListFilter) ([]*Worklog, error)
	Create(dto CreateWorklogDTO) (*Worklog, error)
	Update(id int64, dto UpdateWorklogDTO) (*Worklog, error)
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

// ListWorklogs handles GET /worklogs?userId&updatedFrom&updatedTo
func (h *Handler) ListWorklogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter ListFilter
	if raw := q.Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.Logger.Error("ListWorklogs: invalid userId", "value", raw)
			h.WriteError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.UserID = id
	}

	var err error
	if filter.From, err = parseBound(q.Get("updatedFrom")); err != nil {
		h.Logger.Error("ListWorklogs: invalid updatedFrom", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid updatedFrom")
		return
	}
	if filter.To, err = parseBound(q.Get("updatedTo")); err != nil {
		h.Logger.Error("ListWorklogs: invalid updatedTo", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid updatedTo")
		return
	}

	worklogs, err := h.Service.List(filter)
	if err != nil {
		h.Logger.Error("ListWorklogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, worklogs)
}

// CreateWorklog handles POST /worklogs. A body without userId is attributed
// to the caller identified by the auth middleware.
func (h *Handler) CreateWorklog(w http.ResponseWriter, r *http.Request) {
	var dto CreateWorklogDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("CreateWorklog: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.UserID == 0 {
		dto.UserID = internal.UserIDFromContext(r.Context())
	}

	created, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateWorklog: service error", "user_id", dto.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateWorklog handles PUT /worklogs/{id}
func (h *Handler) UpdateWorklog(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.Logger.Error("UpdateWorklog: invalid worklog ID", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid worklog ID")
		return
	}

	var dto UpdateWorklogDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("UpdateWorklog: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateWorklog: service error", "worklog_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteWorklog handles DELETE /worklogs/{id}
func (h *Handler) DeleteWorklog(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.Logger.Error("DeleteWorklog: invalid worklog ID", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid worklog ID")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteWorklog: service error", "worklog_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, struct{}{})
}

func parseBound(raw string) (*date.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
