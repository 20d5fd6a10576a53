// Package client talks to the upload service on behalf of the authoring tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mind-engage/mocktest-admin/internal/quiz"
)

// RemoteError is a non-2xx answer from the service. Message is the service's
// own error text when it sent one.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
}

type PracticeReceipt struct {
	Message  string   `json:"message"`
	Uploaded int      `json:"uploaded"`
	Groups   int      `json:"groups"`
	DocIDs   []string `json:"doc_ids,omitempty"`
}

type Client struct {
	BaseURL string
	// No timeout: a submission waits for its one round trip unless ctx ends.
	HTTP *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: &http.Client{}}
}

// SubmitTest uploads a finished mock test and returns the service message.
func (c *Client) SubmitTest(ctx context.Context, t quiz.MockTest) (string, error) {
	body := quiz.MockTest{Title: t.Title, Description: t.Description, Duration: t.Duration, Questions: t.Questions}
	if body.Questions == nil {
		body.Questions = []quiz.Question{}
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "upload test", "/upload-test", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SubmitPracticeQuestions uploads qs under topic/subtopic. The service stores
// them in groups of quiz.PracticeChunkSize.
func (c *Client) SubmitPracticeQuestions(ctx context.Context, topic, subtopic string, qs []quiz.Question) (PracticeReceipt, error) {
	var out PracticeReceipt
	err := c.post(ctx, "upload practice", "/upload-practice", quiz.PracticeUpload{Topic: topic, Subtopic: subtopic, Questions: qs}, &out)
	return out, err
}

func (c *Client) SubmitNotification(ctx context.Context, n quiz.Notification) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "upload notification", "/upload-notification", n, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	if c.BaseURL == "" {
		return errors.New("client: missing BaseURL")
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode/100 != 2 {
		return httpErr(op, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func httpErr(op string, status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return &RemoteError{Op: op, Status: status, Message: msg}
}
