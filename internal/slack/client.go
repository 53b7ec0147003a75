// Package slack is a thin client for the handful of Slack Web API calls
// the bot makes, plus the payload builders for its messages.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultAPIRoot = "https://slack.com/api"

type Config struct {
	APIRoot      string
	ClientID     string
	ClientSecret string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.APIRoot) == "" {
		cfg.APIRoot = defaultAPIRoot
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Message is the sendable content of one chat message. Zero fields are
// omitted from the payload.
type Message struct {
	Text        string
	Blocks      []map[string]any
	Attachments []map[string]any
}

// MessageAck is Slack's acknowledgment of a posted or updated message.
type MessageAck struct {
	OK      bool
	Channel string
	TS      string
}

// Profile is the subset of users.info the bot keeps on a user.
type Profile struct {
	RealName  string
	AvatarURL string
}

// OAuthResponse carries the workspace tokens from oauth.access.
type OAuthResponse struct {
	AccessToken    string
	TeamID         string
	TeamName       string
	BotUserID      string
	BotAccessToken string
}

// SendMessage posts msg to a channel or user DM via chat.postMessage.
func (c *Client) SendMessage(ctx context.Context, token, channel string, msg Message) (MessageAck, error) {
	payload := map[string]any{
		"channel": channel,
		"as_user": true,
	}
	mergeMessage(payload, msg)
	return c.postForAck(ctx, token, "/chat.postMessage", payload)
}

// UpdateMessage rewrites an existing message in place via chat.update.
func (c *Client) UpdateMessage(ctx context.Context, token, channel, ts string, msg Message) (MessageAck, error) {
	payload := map[string]any{
		"channel": channel,
		"ts":      ts,
		"as_user": true,
	}
	mergeMessage(payload, msg)
	return c.postForAck(ctx, token, "/chat.update", payload)
}

// DeleteMessage removes a previously posted message.
func (c *Client) DeleteMessage(ctx context.Context, token, channel, ts string) error {
	_, err := c.postForAck(ctx, token, "/chat.delete", map[string]any{
		"channel": channel,
		"ts":      ts,
	})
	return err
}

// OpenDialog opens a modal dialog against a slash-command trigger id.
func (c *Client) OpenDialog(ctx context.Context, token, triggerID string, dialog map[string]any) error {
	_, err := c.postForAck(ctx, token, "/dialog.open", map[string]any{
		"trigger_id": triggerID,
		"dialog":     dialog,
	})
	return err
}

// SendResponse posts ephemeral text back to a slash-command response URL.
func (c *Client) SendResponse(ctx context.Context, responseURL, text string) error {
	body, err := json.Marshal(map[string]any{
		"text":          text,
		"response_type": "ephemeral",
	})
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("response url returned status %d", resp.StatusCode)
	}
	return nil
}

// UserProfile fetches display name and avatar for a user id.
func (c *Client) UserProfile(ctx context.Context, token, userID string) (Profile, error) {
	endpoint := fmt.Sprintf("%s/users.info?user=%s", c.cfg.APIRoot, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("users.info: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("read users.info body: %w", err)
	}

	if !gjson.GetBytes(body, "ok").Bool() {
		return Profile{}, fmt.Errorf("users.info failed: %s", gjson.GetBytes(body, "error").String())
	}
	return Profile{
		RealName:  gjson.GetBytes(body, "user.profile.real_name").String(),
		AvatarURL: gjson.GetBytes(body, "user.profile.image_48").String(),
	}, nil
}

// OAuthAccess exchanges an OAuth code for workspace tokens.
func (c *Client) OAuthAccess(ctx context.Context, code string) (OAuthResponse, error) {
	form := url.Values{"code": {code}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIRoot+"/oauth.access", strings.NewReader(form.Encode()))
	if err != nil {
		return OAuthResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return OAuthResponse{}, fmt.Errorf("oauth.access: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OAuthResponse{}, fmt.Errorf("read oauth body: %w", err)
	}

	if !gjson.GetBytes(body, "ok").Bool() {
		return OAuthResponse{}, fmt.Errorf("oauth.access failed: %s", gjson.GetBytes(body, "error").String())
	}
	return OAuthResponse{
		AccessToken:    gjson.GetBytes(body, "access_token").String(),
		TeamID:         gjson.GetBytes(body, "team_id").String(),
		TeamName:       gjson.GetBytes(body, "team_name").String(),
		BotUserID:      gjson.GetBytes(body, "bot.bot_user_id").String(),
		BotAccessToken: gjson.GetBytes(body, "bot.bot_access_token").String(),
	}, nil
}

func mergeMessage(payload map[string]any, msg Message) {
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if len(msg.Blocks) > 0 {
		payload["blocks"] = msg.Blocks
	}
	if len(msg.Attachments) > 0 {
		payload["attachments"] = msg.Attachments
	}
}

func (c *Client) postForAck(ctx context.Context, token, path string, payload map[string]any) (MessageAck, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return MessageAck{}, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIRoot+path, bytes.NewReader(body))
	if err != nil {
		return MessageAck{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return MessageAck{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return MessageAck{}, fmt.Errorf("read %s body: %w", path, err)
	}

	if !gjson.GetBytes(respBody, "ok").Bool() {
		return MessageAck{}, fmt.Errorf("%s failed: %s", path, gjson.GetBytes(respBody, "error").String())
	}
	return MessageAck{
		OK:      true,
		Channel: gjson.GetBytes(respBody, "channel").String(),
		TS:      gjson.GetBytes(respBody, "ts").String(),
	}, nil
}
