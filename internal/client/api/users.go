package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"

	"github.com/frahmantamala/hr-portal/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. The error message is the
// server's own message when it sent one.
func (c *Client) Login(ctx context.Context, email, password string) (string, models.User, error) {
	const failure = "authorization failed"

	body, err := jsonBody(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", models.User{}, &RequestError{Message: failure, Err: err}
	}

	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/login",
		body:        body,
		contentType: "application/json",
		failure:     failure,
	})
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.ServerMessage != "" {
			reqErr.Message, reqErr.ServerMessage = reqErr.ServerMessage, ""
		}
		return "", models.User{}, err
	}

	var resp struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", models.User{}, &RequestError{Message: failure, Err: fmt.Errorf("malformed login response: %w", err)}
	}
	if resp.Token == "" {
		return "", models.User{}, &RequestError{Message: failure, Err: errors.New("login response carries no token")}
	}
	user, err := decodeInto(resp.User, failure, models.DecodeUser)
	if err != nil {
		return "", models.User{}, err
	}
	return resp.Token, user, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	const failure = "failed to load profile"

	data, err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/api/user/" + strconv.FormatInt(id, 10),
		failure: failure,
	})
	if err != nil {
		return models.User{}, err
	}
	return decodeInto(data, failure, models.DecodeUser)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, payload models.UpdateProfilePayload) (models.User, error) {
	const failure = "failed to update profile"

	body, err := jsonBody(payload)
	if err != nil {
		return models.User{}, &RequestError{Message: failure, Err: err}
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        "/api/user/" + strconv.FormatInt(id, 10),
		body:        body,
		contentType: "application/json",
		failure:     failure,
	})
	if err != nil {
		return models.User{}, err
	}
	return decodeInto(data, failure, models.DecodeUser)
}

// UploadAvatar sends the image as the multipart field "file" and returns
// the URL it was stored under.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	const failure = "failed to upload avatar"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", &RequestError{Message: failure, Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &RequestError{Message: failure, Err: fmt.Errorf("read avatar: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return "", &RequestError{Message: failure, Err: err}
	}

	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/upload-avatar",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		failure:     failure,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		AvatarURL string `json:"avatarUrl"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &RequestError{Message: failure, Err: fmt.Errorf("malformed upload response: %w", err)}
	}
	if resp.AvatarURL == "" {
		return "", &RequestError{Message: failure, Err: errors.New("upload response carries no avatarUrl")}
	}
	return resp.AvatarURL, nil
}
