package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/models"
)

// WorklogFilter narrows a listing. Zero values are not sent.
type WorklogFilter struct {
	UserID int64
	From   *time.Time
	To     *time.Time
}

func (c *Client) ListWorklogs(ctx context.Context, filter WorklogFilter) ([]models.Worklog, error) {
	failure := "failed to load worklogs"
	query := url.Values{}
	if filter.UserID != 0 {
		failure = "failed to load user worklogs"
		query.Set("userId", strconv.FormatInt(filter.UserID, 10))
	}
	if filter.From != nil {
		query.Set("updatedFrom", formatTimestamp(*filter.From))
	}
	if filter.To != nil {
		query.Set("updatedTo", formatTimestamp(*filter.To))
	}

	data, err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/api/worklogs",
		query:   query,
		failure: failure,
	})
	if err != nil {
		return nil, err
	}
	return decodeInto(data, failure, models.DecodeWorklogs)
}

func (c *Client) CreateWorklog(ctx context.Context, in models.WorklogInput) (models.Worklog, error) {
	const failure = "failed to create worklog"

	body, err := jsonBody(in)
	if err != nil {
		return models.Worklog{}, &RequestError{Message: failure, Err: err}
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/worklogs",
		body:        body,
		contentType: "application/json",
		failure:     failure,
	})
	if err != nil {
		return models.Worklog{}, err
	}
	return decodeInto(data, failure, models.DecodeWorklog)
}

func (c *Client) UpdateWorklog(ctx context.Context, id int64, p models.WorklogPatch) (models.Worklog, error) {
	const failure = "failed to update worklog"

	body, err := jsonBody(p)
	if err != nil {
		return models.Worklog{}, &RequestError{Message: failure, Err: err}
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        "/api/worklogs/" + strconv.FormatInt(id, 10),
		body:        body,
		contentType: "application/json",
		failure:     failure,
	})
	if err != nil {
		return models.Worklog{}, err
	}
	return decodeInto(data, failure, models.DecodeWorklog)
}

// DeleteWorklog reports a missing id as an error matching ErrNotFound.
func (c *Client) DeleteWorklog(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/api/worklogs/" + strconv.FormatInt(id, 10),
		failure: "failed to delete worklog",
	})
	return err
}
