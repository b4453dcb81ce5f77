package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running bridge over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Turn sends history plus an untyped configuration bag and returns the reply.
func (c *Client) Turn(ctx context.Context, history []Message, config map[string]any) (Message, error) {
	var out turnResponse
	if err := c.send(ctx, "/chat/turn", map[string]any{
		"messages": history,
		"config":   config,
	}, &out); err != nil {
		return Message{}, err
	}

	if len(out.Messages) == 0 {
		return Message{}, errors.New("bridge api error: response has no messages")
	}
	return out.Messages[0], nil
}

func (c *Client) send(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return errors.New(
			"bridge api error: " +
				resp.Status +
				" body=" + strings.TrimSpace(string(respBody)),
		)
	}

	return json.Unmarshal(respBody, out)
}
