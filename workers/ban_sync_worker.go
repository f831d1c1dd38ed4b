package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"streakup/models"

	"gorm.io/gorm"
)

// BanSyncClient polls the moderation service for ban changes. Ban application
// and expiry are decided over there; this service only mirrors BanUntil so
// the completion evaluator and redemption dispatcher can gate on it locally.
type BanSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewBanSyncClient(db *gorm.DB) *BanSyncClient {
	baseURL := os.Getenv("MODERATION_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("MODERATION_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("STREAKUP_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("STREAKUP_SERVICE_TOKEN environment variable is required for ban sync")
	}

	return &BanSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *BanSyncClient) GetChangedBans(ctx context.Context, since time.Time) ([]models.RemoteBan, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/bans", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call moderation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("moderation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Bans []models.RemoteBan `json:"bans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode moderation service response: %w", err)
	}
	return response.Bans, nil
}

// PollBans mirrors ban changes into local users on an interval.
func PollBans(ctx context.Context, client *BanSyncClient, pollInterval time.Duration) {
	log.Println("Starting ban polling (moderation-service → users)...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ban polling stopped.")
			return
		case <-ticker.C:
			pollStart := time.Now().UTC()

			bans, err := client.GetChangedBans(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling bans: %v", err)
				continue
			}

			for _, b := range bans {
				res := client.DB.Model(&models.User{}).
					Where("external_user_id = ?", b.ExternalUserID).
					Update("ban_until", b.BanUntil)
				if res.Error != nil {
					log.Printf("❌ Failed to apply ban change for %s: %v", b.ExternalUserID, res.Error)
				}
			}

			if len(bans) > 0 {
				log.Printf("📥 Applied %d ban change(s)", len(bans))
			}
			lastSyncTime = pollStart
		}
	}
}
