package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a thin HTTP client for the Telegram Bot API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// apiResponse is the Bot API response envelope.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// SendMessage delivers a text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	return err
}

// GetFileURL resolves a file_id into a downloadable URL.
func (c *Client) GetFileURL(ctx context.Context, fileID string) (string, error) {
	raw, err := c.call(ctx, "getFile", map[string]any{"file_id": fileID})
	if err != nil {
		return "", err
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", fmt.Errorf("telegram: decode getFile result: %w", err)
	}
	if f.FilePath == "" {
		return "", fmt.Errorf("telegram: getFile returned no file_path for %s", fileID)
	}
	return fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, f.FilePath), nil
}

// GetMe verifies the token and returns the bot account.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	raw, err := c.call(ctx, "getMe", nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("telegram: decode getMe result: %w", err)
	}
	return &u, nil
}

// GetUpdates long-polls for new updates past offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	// The poll request must outlive the base client timeout.
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout+10)*time.Second)
		defer cancel()
	}

	raw, err := c.callWith(reqCtx, c.pollClient(timeout), "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message"},
	})
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decode getUpdates result: %w", err)
	}
	return updates, nil
}

func (c *Client) pollClient(timeout int) *http.Client {
	if timeout <= 0 {
		return c.client
	}
	return &http.Client{Timeout: time.Duration(timeout+10) * time.Second}
}

func (c *Client) call(ctx context.Context, method string, body any) (json.RawMessage, error) {
	return c.callWith(ctx, c.client, method, body)
}

func (c *Client) callWith(ctx context.Context, httpClient *http.Client, method string, body any) (json.RawMessage, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(b)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("telegram: %s: decode response: %w", method, err)
	}
	if !api.Ok {
		log.Warn().
			Str("method", method).
			Int("error_code", api.ErrorCode).
			Str("description", api.Description).
			Msg("telegram api error")
		return nil, fmt.Errorf("telegram: %s: api error %d: %s", method, api.ErrorCode, api.Description)
	}
	return api.Result, nil
}
