package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/models"
)

// ListNews returns news newest first, optionally bounded by creation time.
func (c *Client) ListNews(ctx context.Context, from, to *time.Time) ([]models.NewsItem, error) {
	const failure = "failed to load news"

	query := url.Values{}
	if from != nil {
		query.Set("from", formatTimestamp(*from))
	}
	if to != nil {
		query.Set("to", formatTimestamp(*to))
	}

	data, err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/api/news",
		query:   query,
		failure: failure,
	})
	if err != nil {
		return nil, err
	}
	return decodeInto(data, failure, models.DecodeNewsItems)
}

func (c *Client) GetNews(ctx context.Context, id int64) (models.NewsItem, error) {
	const failure = "failed to load news item"

	data, err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/api/news/" + strconv.FormatInt(id, 10),
		failure: failure,
	})
	if err != nil {
		return models.NewsItem{}, err
	}
	return decodeInto(data, failure, models.DecodeNewsItem)
}

func (c *Client) CreateNews(ctx context.Context, in models.NewsInput) (models.NewsItem, error) {
	return c.sendNews(ctx, http.MethodPost, "/api/news", in, "failed to create news")
}

func (c *Client) UpdateNews(ctx context.Context, id int64, p models.NewsPatch) (models.NewsItem, error) {
	return c.sendNews(ctx, http.MethodPut, "/api/news/"+strconv.FormatInt(id, 10), p, "failed to update news")
}

func (c *Client) DeleteNews(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/api/news/" + strconv.FormatInt(id, 10),
		failure: "failed to delete news",
	})
	return err
}

func (c *Client) sendNews(ctx context.Context, method, path string, payload interface{}, failure string) (models.NewsItem, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return models.NewsItem{}, &RequestError{Message: failure, Err: err}
	}
	data, err := c.do(ctx, request{
		method:      method,
		path:        path,
		body:        body,
		contentType: "application/json",
		failure:     failure,
	})
	if err != nil {
		return models.NewsItem{}, err
	}
	return decodeInto(data, failure, models.DecodeNewsItem)
}
