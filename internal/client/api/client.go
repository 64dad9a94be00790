// Package api is the HTTP client for the Courier server. It owns the base
// URL, the bearer token obtained at login, and the JSON plumbing; the CLI
// layer on top of it only deals in Go values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// APIError is a non-2xx response from the server, carrying the status code
// and the server-provided message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to the Courier HTTP API. It is not safe for concurrent use;
// the token is replaced on login.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Token returns the bearer token of the current session, or "".
func (c *Client) Token() string {
	return c.token
}

// IsAuthenticated reports whether a login or registration has succeeded.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// Logout discards the session token.
func (c *Client) Logout() {
	c.token = ""
}

// do sends one JSON request and decodes the JSON response into out (when
// out is non-nil). Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Register creates an account and starts a session with the returned token.
func (c *Client) Register(ctx context.Context, username, password, firstName, lastName, phone string) error {
	var resp struct {
		Token string `json:"token"`
	}

	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username":   username,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
	}, &resp)
	if err != nil {
		return err
	}

	c.token = resp.Token
	return nil
}

// Login authenticates and starts a session with the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}

	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}

	c.token = resp.Token
	return nil
}

// Users lists all registered users.
func (c *Client) Users(ctx context.Context) ([]Profile, error) {
	var resp struct {
		Users []Profile `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// User fetches one user's profile.
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Inbox lists the messages sent to username. The server only allows this
// for the session's own user.
func (c *Client) Inbox(ctx context.Context, username string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/to", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Outbox lists the messages sent by username.
func (c *Client) Outbox(ctx context.Context, username string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/from", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Send creates a message to the given recipient. attachmentKey may be "".
func (c *Client) Send(ctx context.Context, to, body, attachmentKey string) (*Message, error) {
	var resp struct {
		Message Message `json:"message"`
	}

	err := c.do(ctx, http.MethodPost, "/messages", map[string]string{
		"to_username":    to,
		"body":           body,
		"attachment_key": attachmentKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// Show fetches one message with both participants' profiles.
func (c *Client) Show(ctx context.Context, id int64) (*MessageDetail, error) {
	var resp struct {
		Message MessageDetail `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// MarkRead marks a received message as read and returns its read time.
func (c *Client) MarkRead(ctx context.Context, id int64) (time.Time, error) {
	var resp struct {
		Message struct {
			ReadAt time.Time `json:"read_at"`
		} `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages/"+strconv.FormatInt(id, 10)+"/read", nil, &resp); err != nil {
		return time.Time{}, err
	}
	return resp.Message.ReadAt, nil
}

// PresignUpload asks the server for a fresh attachment key and an upload URL.
func (c *Client) PresignUpload(ctx context.Context) (string, string, error) {
	var resp struct {
		Key       string `json:"key"`
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/attachments", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.UploadURL, nil
}

// AttachmentURL fetches a download URL for the message's attachment.
func (c *Client) AttachmentURL(ctx context.Context, id int64) (string, error) {
	var resp struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/"+strconv.FormatInt(id, 10)+"/attachment", nil, &resp); err != nil {
		return "", err
	}
	return resp.DownloadURL, nil
}

// UploadAttachment PUTs raw bytes to a presigned URL. The URL embeds its own
// authorization; no bearer token is sent.
func (c *Client) UploadAttachment(ctx context.Context, url string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: "upload failed"}
	}
	return nil
}
