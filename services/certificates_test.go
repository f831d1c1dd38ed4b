package services

import (
	"testing"
	"time"

	"streakup/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockCertificateInvalidRank(t *testing.T) {
	s := NewCertificateService(nil, nil)
	_, err := s.UnlockCertificate("u1", models.RankBronze, models.PaymentInstapay)
	assert.ErrorIs(t, err, ErrNotFound, "Bronze has no certificate")
}

func TestUnlockCertificateInvalidPaymentMethod(t *testing.T) {
	s := NewCertificateService(nil, nil)
	_, err := s.UnlockCertificate("u1", models.RankGold, "paypal")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestValidPaymentMethods(t *testing.T) {
	assert.True(t, models.ValidPaymentMethod(models.PaymentInstapay))
	assert.True(t, models.ValidPaymentMethod(models.PaymentVodafoneCash))
	assert.False(t, models.ValidPaymentMethod(""))
	assert.False(t, models.ValidPaymentMethod("cash"))
}

func TestCheckCertificateProgress(t *testing.T) {
	t.Run("below requirement", func(t *testing.T) {
		progress, err := checkCertificateProgress(599, 600, models.RankSilver)
		assert.ErrorIs(t, err, ErrNotYetAchieved)
		assert.InDelta(t, 99.83, progress, 0.01)
	})

	t.Run("exactly at requirement", func(t *testing.T) {
		progress, err := checkCertificateProgress(600, 600, models.RankSilver)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, progress)
	})

	t.Run("past requirement", func(t *testing.T) {
		progress, err := checkCertificateProgress(2500, 1800, models.RankPlatinum)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, progress)
	})
}

func TestIssueCertificate(t *testing.T) {
	now := time.Now()

	t.Run("fresh issue", func(t *testing.T) {
		cert := &models.Certificate{UserID: "u1", Rank: models.RankGold}
		issued := issueCertificate(cert, 100, models.PaymentInstapay, now)

		require.True(t, issued)
		assert.True(t, cert.Paid)
		assert.NotEmpty(t, cert.CertificateID)
		require.NotNil(t, cert.IssuedAt)
		assert.Equal(t, now, *cert.IssuedAt)
		assert.Equal(t, models.PaymentInstapay, cert.PaymentMethod)
	})

	t.Run("repeat unlock keeps the original certificate", func(t *testing.T) {
		cert := &models.Certificate{UserID: "u1", Rank: models.RankGold}
		require.True(t, issueCertificate(cert, 100, models.PaymentInstapay, now))
		snapshot := *cert

		issued := issueCertificate(cert, 100, models.PaymentVodafoneCash, now.Add(time.Hour))
		assert.False(t, issued)
		assert.Equal(t, snapshot, *cert, "no mutation on re-issue: same id, same issue time")
	})
}

func TestCertificateRanks(t *testing.T) {
	assert.Equal(t, []models.Rank{models.RankSilver, models.RankGold, models.RankPlatinum}, CertificateRanks)
	assert.False(t, isCertificateRank(models.RankBronze))
	assert.True(t, isCertificateRank(models.RankPlatinum))
	assert.False(t, isCertificateRank(models.Rank("Diamond")))
}
