package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"streakup/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfileChangesResponse is the top-level structure of the profile service
// response.
type GetProfileChangesResponse struct {
	Users []models.RemoteProfile `json:"users"`
}

// ProfileSyncWorker mirrors identity data (username, email, full name, track)
// from the profile service into local users. Registration happens over
// there; progression state never leaves here.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g. "http://localhost:8500"
	endpointPath string // e.g. "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, profileServiceBaseURL, endpointPath, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      profileServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile-service → users)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local users table.
func (w *ProfileSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	w.db.Model(&models.User{}).
		Select("COALESCE(MAX(updated_at), to_timestamp(0))").
		Scan(&lastTime)
	return lastTime
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	profiles, err := w.fetchChangedProfiles(ctx, since)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	for _, p := range profiles {
		if p.DeletedAt != nil {
			// Soft-delete locally; progression history stays for audit.
			if err := w.db.Where("external_user_id = ?", p.ExternalID).
				Delete(&models.User{}).Error; err != nil {
				log.Printf("❌ Failed to soft-delete user %s: %v", p.ExternalID, err)
			}
			continue
		}

		user := models.User{
			ExternalUserID: p.ExternalID,
			Username:       p.Username,
			Email:          p.Email,
			FullName:       p.FullName,
			Track:          p.Track,
		}
		// Upsert only identity columns — counters, rank and the rest of the
		// progression state are owned by this service and must never be
		// clobbered by a sync.
		err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "full_name", "track"}),
		}).Create(&user).Error
		if err != nil {
			log.Printf("❌ Failed to upsert user %s: %v", p.ExternalID, err)
		}
	}

	log.Printf("📥 Profile sync applied %d change(s)", len(profiles))
	return nil
}

func (w *ProfileSyncWorker) fetchChangedProfiles(ctx context.Context, since time.Time) ([]models.RemoteProfile, error) {
	u, err := url.Parse(fmt.Sprintf("%s%s", w.baseURL, w.endpointPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile service URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call profile service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("profile service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GetProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode profile service response: %w", err)
	}
	return response.Users, nil
}
