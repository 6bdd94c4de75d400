// Package telegram connects the bot to the Telegram Bot API using long polling.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/taskbot/internal/bot"
	"github.com/tgienger/taskbot/internal/models"
)

const (
	defaultAPIRoot = "https://api.telegram.org"
	offsetKey      = "telegram_offset"
	shareLabel     = "Share contact"
)

// Config holds the Bot API connection settings
type Config struct {
	Token       string
	APIRoot     string
	PollTimeout time.Duration
	RetryDelay  time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// OffsetStore persists the update offset between restarts
type OffsetStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Client receives updates and sends messages through the Bot API
type Client struct {
	cfg     Config
	http    *http.Client
	offsets OffsetStore
	offset  int64
	log     *slog.Logger
}

// NewClient creates a client. offsets may be nil, in which case the offset
// only lives in memory.
func NewClient(cfg Config, offsets OffsetStore) *Client {
	if strings.TrimSpace(cfg.APIRoot) == "" {
		cfg.APIRoot = defaultAPIRoot
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.PollTimeout + 10*time.Second}
	}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		offsets: offsets,
		log:     cfg.Logger.With("transport", "telegram"),
	}
}

// Run polls for updates until ctx is done, passing each message to submit.
// Poll errors are logged and retried after RetryDelay.
func (c *Client) Run(ctx context.Context, submit func(context.Context, models.Inbound)) error {
	if strings.TrimSpace(c.cfg.Token) == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if err := c.loadOffset(ctx); err != nil {
		return fmt.Errorf("load update offset: %w", err)
	}

	for {
		if err := c.pollOnce(ctx, submit); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("poll failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.cfg.RetryDelay):
			}
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Client) loadOffset(ctx context.Context) error {
	if c.offsets == nil {
		return nil
	}
	v, err := c.offsets.GetSetting(ctx, offsetKey)
	if err != nil || v == "" {
		return err
	}
	offset, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", offsetKey, v, err)
	}
	c.offset = offset
	return nil
}

func (c *Client) pollOnce(ctx context.Context, submit func(context.Context, models.Inbound)) error {
	payload := map[string]any{
		"timeout":         int(c.cfg.PollTimeout / time.Second),
		"allowed_updates": []string{"message"},
	}
	if c.offset > 0 {
		payload["offset"] = c.offset
	}

	var result getUpdatesResponse
	if err := c.call(ctx, "getUpdates", payload, &result); err != nil {
		return err
	}
	if len(result.Result) == 0 {
		return nil
	}

	for _, upd := range result.Result {
		if upd.UpdateID >= c.offset {
			c.offset = upd.UpdateID + 1
		}
		if msg, ok := toInbound(upd); ok {
			submit(ctx, msg)
		}
	}

	if c.offsets != nil {
		if err := c.offsets.SetSetting(ctx, offsetKey, strconv.FormatInt(c.offset, 10)); err != nil {
			c.log.Warn("persist update offset", "offset", c.offset, "error", err)
		}
	}
	return nil
}

func toInbound(upd update) (models.Inbound, bool) {
	m := upd.Message
	if m == nil || m.From.ID == 0 {
		return models.Inbound{}, false
	}
	msg := models.Inbound{
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		Text:      strings.TrimSpace(m.Text),
		RequestID: "tg-" + strconv.FormatInt(upd.UpdateID, 10),
	}
	if m.Contact != nil {
		msg.Contact = &models.Contact{
			UserID:    m.Contact.UserID,
			Phone:     m.Contact.PhoneNumber,
			FirstName: m.Contact.FirstName,
		}
	}
	if msg.Text == "" && msg.Contact == nil {
		return models.Inbound{}, false
	}
	return msg, true
}

// Send delivers one message. A contact request adds a one-time keyboard
// with a share-contact button.
func (c *Client) Send(ctx context.Context, msg models.Outbound) error {
	if msg.ChatID == 0 {
		return fmt.Errorf("telegram chat id is required")
	}
	payload := map[string]any{
		"chat_id": msg.ChatID,
		"text":    msg.Text,
	}
	if msg.RequestContact {
		payload["reply_markup"] = map[string]any{
			"keyboard": [][]map[string]any{
				{{"text": shareLabel, "request_contact": true}},
			},
			"one_time_keyboard": true,
			"resize_keyboard":   true,
		}
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SetCommands publishes the command menu shown by Telegram clients
func (c *Client) SetCommands(ctx context.Context, items []bot.MenuItem) error {
	commands := make([]map[string]string, len(items))
	for i, item := range items {
		commands[i] = map[string]string{"command": item.Command, "description": item.Description}
	}
	return c.call(ctx, "setMyCommands", map[string]any{"commands": commands}, nil)
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	url := strings.TrimRight(c.cfg.APIRoot, "/") + "/bot" + c.cfg.Token + "/" + method
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the request URL carries the token
		return fmt.Errorf("telegram %s: %w", method, redact(err, c.cfg.Token))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram %s: read response: %w", method, err)
	}

	var base apiResponse
	if err := json.Unmarshal(respBody, &base); err != nil {
		return fmt.Errorf("telegram %s: status=%d: %w", method, resp.StatusCode, err)
	}
	if !base.OK || resp.StatusCode >= 300 {
		return &APIError{Method: method, Code: base.ErrorCode, Description: base.Description}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

// APIError is an error reported by the Bot API
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

type getUpdatesResponse struct {
	apiResponse
	Result []update `json:"result"`
}

type update struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64 `json:"message_id"`
	From      struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
	} `json:"from"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text    string `json:"text"`
	Contact *struct {
		PhoneNumber string `json:"phone_number"`
		FirstName   string `json:"first_name"`
		UserID      int64  `json:"user_id"`
	} `json:"contact"`
}
