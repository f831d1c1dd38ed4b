// streakup/services/notifier.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"streakup/models"
	"streakup/utils"
)

// CertificateNotice is the payload contract with the mail service, which
// renders and sends the rank-up certificate email. Rendering/email mechanics
// live entirely on that side.
type CertificateNotice struct {
	RecipientEmail string      `json:"recipient_email"`
	FullName       string      `json:"full_name"`
	Rank           models.Rank `json:"rank"`
}

// Notifier dispatches certificate notices without blocking the caller.
// Delivery failures are logged, never surfaced as request errors.
type Notifier interface {
	NotifyCertificate(notice CertificateNotice)
}

// MailServiceClient posts certificate notices to the mail service.
type MailServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewMailServiceClient(baseURL, token string) *MailServiceClient {
	return &MailServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  utils.HTTPClient,
	}
}

// SendCertificateNotice calls /notifications/certificate on the mail service.
func (c *MailServiceClient) SendCertificateNotice(notice CertificateNotice) error {
	url := fmt.Sprintf("%s/notifications/certificate", c.BaseURL)

	jsonData, _ := json.Marshal(notice)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Mail service /notifications/certificate returned %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("certificate notice failed: %d", resp.StatusCode)
	}

	return nil
}

// NopNotifier discards notices. Used when no mail service is configured and
// in tests.
type NopNotifier struct{}

func (NopNotifier) NotifyCertificate(CertificateNotice) {}
