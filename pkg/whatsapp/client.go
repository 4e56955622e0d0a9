package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/aninkinaa/mentalwell1.0-api/config"
)

// Client sends WhatsApp text messages through a Fonnte-style HTTP gateway.
type Client struct {
	apiURL        string
	apiKey        string
	defaultRegion string
	httpClient    *http.Client
	enabled       bool
}

// NewFromConfig creates a WhatsApp client from the application configuration.
// If WhatsApp is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.WhatsAppConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("whatsapp API URL and key required when WhatsApp enabled")
	}

	region := cfg.DefaultRegion
	if region == "" {
		region = "ID"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiURL:        cfg.APIURL,
		apiKey:        cfg.APIKey,
		defaultRegion: region,
		httpClient:    &http.Client{Timeout: timeout},
		enabled:       true,
	}, nil
}

// Send delivers a text message to the given phone number. The number is
// normalized to E.164 before hitting the gateway; local numbers are parsed
// against the configured default region.
// If WhatsApp is disabled, this is a no-op and returns nil.
func (c *Client) Send(ctx context.Context, phoneNumber, message string) error {
	if !c.enabled {
		// No-op when disabled (useful for development)
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if message == "" {
		return fmt.Errorf("message is required")
	}

	target, err := c.normalize(phoneNumber)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("target", target)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// IsEnabled returns whether WhatsApp sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) normalize(phoneNumber string) (string, error) {
	num, err := phonenumbers.Parse(phoneNumber, c.defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number %q: %w", phoneNumber, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", phoneNumber)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
