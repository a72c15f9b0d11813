package eligibility_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/eligibility"
)

func TestValidate(t *testing.T) {
	cfg := domain.DefaultMakeupConfig("tenant-1")

	assert.True(t, eligibility.Validate(domain.ReasonIllnessWithCertificate, cfg))
	assert.True(t, eligibility.Validate(domain.ReasonVehicleBreakdown, cfg))
	assert.False(t, eligibility.Validate(domain.ReasonIllnessWithoutCertificate, cfg))
	assert.False(t, eligibility.Validate(domain.ReasonStudentNoShow, cfg))
	assert.False(t, eligibility.Validate("something_else", cfg))
	assert.False(t, eligibility.Validate(domain.ReasonIllnessWithCertificate, nil))
}

func TestValidate_EmptyReasonsBlocksEverything(t *testing.T) {
	cfg := domain.DefaultMakeupConfig("tenant-1")
	cfg.ValidReasons = nil

	for _, reason := range domain.KnownReasons {
		assert.False(t, eligibility.Validate(reason, cfg), reason)
	}
}

func TestValidate_UnknownReasonEvenIfConfigured(t *testing.T) {
	cfg := domain.DefaultMakeupConfig("tenant-1")
	cfg.ValidReasons = append(cfg.ValidReasons, "bored")

	assert.False(t, eligibility.Validate("bored", cfg))
}

func TestWithinCancellationWindow(t *testing.T) {
	cfg := domain.DefaultMakeupConfig("tenant-1")
	cancelled := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)

	assert.True(t, eligibility.WithinCancellationWindow(cancelled, cancelled, cfg))
	assert.True(t, eligibility.WithinCancellationWindow(cancelled, cancelled.AddDate(0, 0, 7), cfg))
	assert.False(t, eligibility.WithinCancellationWindow(cancelled, cancelled.AddDate(0, 0, 7).Add(time.Second), cfg))

	cfg.MaxDaysFromCancellation = 0
	assert.False(t, eligibility.WithinCancellationWindow(cancelled, cancelled.Add(time.Minute), cfg))
}
