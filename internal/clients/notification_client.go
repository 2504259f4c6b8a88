package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers one-time codes to a user.
type Notifier interface {
	SendEmailOTP(ctx context.Context, email, code string) error
	SendSMSOTP(ctx context.Context, phone, code string) error
}

// NotificationClient talks to the notification gateway over HTTP.
type NotificationClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewNotificationClient(baseURL string, log *logrus.Logger) *NotificationClient {
	return &NotificationClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type notificationRequest struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}

func (c *NotificationClient) SendEmailOTP(ctx context.Context, email, code string) error {
	return c.send(ctx, notificationRequest{
		Type:      "email",
		Recipient: email,
		Subject:   "Your verification code",
		Body:      fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	})
}

func (c *NotificationClient) SendSMSOTP(ctx context.Context, phone, code string) error {
	return c.send(ctx, notificationRequest{
		Type:      "sms",
		Recipient: phone,
		Body:      fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	})
}

func (c *NotificationClient) send(ctx context.Context, req notificationRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"type":   req.Type,
		}).Error("Notification gateway rejected request")
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}
	return nil
}
