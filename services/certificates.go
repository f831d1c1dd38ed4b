package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"streakup/models"
	"streakup/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificateRanks are the tiers that carry a certificate. Bronze does not.
var CertificateRanks = []models.Rank{models.RankSilver, models.RankGold, models.RankPlatinum}

type CertificateService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewCertificateService(db *gorm.DB, notifier Notifier) *CertificateService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CertificateService{DB: db, Notifier: notifier}
}

// CertificateStatusEntry is rendered as a progress bar by the certificates UI.
type CertificateStatusEntry struct {
	Rank          models.Rank `json:"rank"`
	Required      int         `json:"required"`
	Progress      float64     `json:"progress"`
	Unlocked      bool        `json:"unlocked"`
	Paid          bool        `json:"paid"`
	CertificateID string      `json:"certificate_id,omitempty"`
	IssuedAt      *time.Time  `json:"issued_at,omitempty"`
}

// CertificateStatus reports progress toward each certificate rank using
// freshly resolved requirements.
func (s *CertificateService) CertificateStatus(userID string) ([]CertificateStatusEntry, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reqs, err := ResolveRequirements(s.DB)
	if err != nil {
		return nil, err
	}

	var certs []models.Certificate
	if err := s.DB.Where("user_id = ?", user.ID).Find(&certs).Error; err != nil {
		return nil, err
	}
	byRank := make(map[models.Rank]models.Certificate, len(certs))
	for _, c := range certs {
		byRank[c.Rank] = c
	}

	entries := make([]CertificateStatusEntry, 0, len(CertificateRanks))
	for _, rank := range CertificateRanks {
		required := reqs.ForRank(rank)
		progress := ProgressPercent(user.Points, required)
		entry := CertificateStatusEntry{
			Rank:     rank,
			Required: required,
			Progress: progress,
			Unlocked: progress >= 100,
		}
		if c, ok := byRank[rank]; ok {
			entry.Paid = c.Paid
			entry.CertificateID = c.CertificateID
			entry.IssuedAt = c.IssuedAt
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UnlockCertificate issues (or re-issues) the certificate for a rank once the
// point progress reaches 100%. Idempotent per rank: the row is located by
// (user, rank) and never duplicated; a second unlock after paid=true is a
// no-op re-issue returning the same certificate id.
func (s *CertificateService) UnlockCertificate(userID string, rank models.Rank, paymentMethod string) (*models.Certificate, error) {
	if !isCertificateRank(rank) {
		return nil, fmt.Errorf("%w: no certificate for rank %q", ErrNotFound, rank)
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, paymentMethod)
	}

	var cert models.Certificate
	var user models.User
	var issued bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		reqs, err := ResolveRequirements(tx)
		if err != nil {
			return err
		}
		progress, err := checkCertificateProgress(user.Points, reqs.ForRank(rank), rank)
		if err != nil {
			return err
		}

		err = tx.Where("user_id = ? AND rank = ?", user.ID, rank).First(&cert).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cert = models.Certificate{UserID: user.ID, Rank: rank}
		case err != nil:
			return err
		}

		issued = issueCertificate(&cert, progress, paymentMethod, time.Now())
		if !issued {
			return nil // re-issue: same id, nothing to write
		}
		return tx.Save(&cert).Error
	})
	if err != nil {
		return nil, err
	}

	// A re-issue wrote nothing and resends nothing: the owner already holds
	// the certificate and its email.
	if !issued {
		return &cert, nil
	}

	// Email dispatch is async; a delivery failure never fails the unlock once
	// the row is persisted.
	s.Notifier.NotifyCertificate(CertificateNotice{
		RecipientEmail: user.Email,
		FullName:       user.FullName,
		Rank:           rank,
	})

	log.Printf("📜 Certificate issued: user=%s rank=%s id=%s", user.ExternalUserID, rank, cert.CertificateID)
	return &cert, nil
}

// checkCertificateProgress gates issuance on full point progress and reports
// how far along the user is.
func checkCertificateProgress(points, required int, rank models.Rank) (float64, error) {
	progress := ProgressPercent(points, required)
	if progress < 100 {
		return progress, fmt.Errorf("%w: %s certificate at %.0f%%", ErrNotYetAchieved, rank, progress)
	}
	return progress, nil
}

// issueCertificate marks the certificate paid and stamps it with a fresh id.
// Returns false — touching nothing — when the row is already paid, so a
// repeat unlock keeps the original id and issue time.
func issueCertificate(cert *models.Certificate, progress float64, paymentMethod string, now time.Time) bool {
	if cert.Paid {
		return false
	}
	cert.Paid = true
	cert.CertificateID = uuid.NewString()
	cert.IssuedAt = &now
	cert.Progress = progress
	cert.PaymentMethod = paymentMethod
	return true
}

// CertificateDownloadURL returns the artifact URL for a paid certificate.
// Rendering and upload happen in the certificate renderer; this only gates
// and resolves the location.
func (s *CertificateService) CertificateDownloadURL(userID string, rank models.Rank) (string, error) {
	var cert models.Certificate
	if err := s.DB.Where("user_id = ? AND rank = ? AND paid = ?", userID, rank, true).
		First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return utils.CertificateArtifactURL(userID, string(cert.Rank)), nil
}

func isCertificateRank(rank models.Rank) bool {
	for _, r := range CertificateRanks {
		if r == rank {
			return true
		}
	}
	return false
}
