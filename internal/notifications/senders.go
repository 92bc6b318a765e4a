package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

const (
	emailAPIBaseURL    = "https://api.sendgrid.com/v3"
	smsAPIBaseURL      = "https://www.fast2sms.com/dev"
	whatsappAPIBaseURL = "https://graph.facebook.com/v19.0"
)

// Sender delivers rendered messages over one channel. Configured reports
// whether the channel has its enabled flag and credentials set; an
// unconfigured channel is skipped, never an error.
type Sender interface {
	Channel() enums.NotificationChannel
	Configured(cfg types.NotificationSettings) bool
	Send(ctx context.Context, cfg types.NotificationSettings, msg Message) error
}

func defaultSenders() []Sender {
	client := &http.Client{Timeout: 10 * time.Second}
	return []Sender{
		&emailSender{baseURL: emailAPIBaseURL, httpClient: client},
		&smsSender{baseURL: smsAPIBaseURL, httpClient: client},
		&whatsappSender{baseURL: whatsappAPIBaseURL, httpClient: client},
	}
}

type emailSender struct {
	baseURL    string
	httpClient *http.Client
}

func (s *emailSender) Channel() enums.NotificationChannel {
	return enums.NotificationChannelEmail
}

func (s *emailSender) Configured(cfg types.NotificationSettings) bool {
	return cfg.Email.Enabled &&
		strings.TrimSpace(cfg.Email.APIKey) != "" &&
		strings.TrimSpace(cfg.Email.FromEmail) != ""
}

func (s *emailSender) Send(ctx context.Context, cfg types.NotificationSettings, msg Message) error {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": msg.Recipient}}},
		},
		"from":    map[string]string{"email": cfg.Email.FromEmail},
		"subject": msg.Subject,
		"content": []map[string]string{{"type": "text/plain", "value": msg.Body}},
	}
	return postJSON(ctx, s.httpClient, s.baseURL+"/mail/send", payload, map[string]string{
		"Authorization": "Bearer " + cfg.Email.APIKey,
	})
}

type smsSender struct {
	baseURL    string
	httpClient *http.Client
}

func (s *smsSender) Channel() enums.NotificationChannel {
	return enums.NotificationChannelSMS
}

func (s *smsSender) Configured(cfg types.NotificationSettings) bool {
	return cfg.SMS.Enabled && strings.TrimSpace(cfg.SMS.APIKey) != ""
}

func (s *smsSender) Send(ctx context.Context, cfg types.NotificationSettings, msg Message) error {
	payload := map[string]any{
		"route":     "q",
		"sender_id": cfg.SMS.SenderID,
		"message":   msg.Body,
		"numbers":   msg.Recipient,
	}
	return postJSON(ctx, s.httpClient, s.baseURL+"/bulkV2", payload, map[string]string{
		"authorization": cfg.SMS.APIKey,
	})
}

type whatsappSender struct {
	baseURL    string
	httpClient *http.Client
}

func (s *whatsappSender) Channel() enums.NotificationChannel {
	return enums.NotificationChannelWhatsApp
}

func (s *whatsappSender) Configured(cfg types.NotificationSettings) bool {
	return cfg.WhatsApp.Enabled &&
		strings.TrimSpace(cfg.WhatsApp.APIKey) != "" &&
		strings.TrimSpace(cfg.WhatsApp.FromNumber) != ""
}

func (s *whatsappSender) Send(ctx context.Context, cfg types.NotificationSettings, msg Message) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.Recipient,
		"type":              "text",
		"text":              map[string]string{"body": msg.Body},
	}
	url := fmt.Sprintf("%s/%s/messages", s.baseURL, cfg.WhatsApp.FromNumber)
	return postJSON(ctx, s.httpClient, url, payload, map[string]string{
		"Authorization": "Bearer " + cfg.WhatsApp.APIKey,
	})
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
