package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
)

func TestMakeupCredit_DaysRemaining(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	credit := &domain.MakeupCredit{CreatedAt: created, ExpiresAt: created.AddDate(0, 0, 30)}

	assert.Equal(t, 30, credit.DaysRemaining(created))
	assert.Equal(t, 7, credit.DaysRemaining(credit.ExpiresAt.Add(-7*24*time.Hour)))
	// 6 дней и 1 час округляются вверх до 7
	assert.Equal(t, 7, credit.DaysRemaining(credit.ExpiresAt.Add(-(6*24+1)*time.Hour)))
	assert.Equal(t, 1, credit.DaysRemaining(credit.ExpiresAt.Add(-time.Minute)))
	assert.Equal(t, 0, credit.DaysRemaining(credit.ExpiresAt))
	assert.True(t, credit.IsExpiryReached(credit.ExpiresAt))
	assert.False(t, credit.IsExpiryReached(credit.ExpiresAt.Add(-time.Nanosecond)))
}

func TestMakeupCredit_CloneIsDeep(t *testing.T) {
	credit := &domain.MakeupCredit{
		Status:        domain.CreditStatusBooked,
		UsedLessonID:  ptr.Ptr("lesson-1"),
		RemindersSent: []int{7},
	}

	cp := credit.Clone()
	*cp.UsedLessonID = "lesson-2"
	cp.RemindersSent[0] = 3

	assert.Equal(t, "lesson-1", *credit.UsedLessonID)
	assert.Equal(t, []int{7}, credit.RemindersSent)
	assert.True(t, credit.HasReminder(7))
	assert.False(t, credit.HasReminder(3))
}

func TestMakeupConfig_Validate(t *testing.T) {
	valid := domain.DefaultMakeupConfig("tenant-1")
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *domain.MakeupConfig)
	}{
		{"offsets not decreasing", func(c *domain.MakeupConfig) { c.ReminderOffsets = []int{3, 7} }},
		{"offsets duplicated", func(c *domain.MakeupConfig) { c.ReminderOffsets = []int{3, 3} }},
		{"offset not below expiry", func(c *domain.MakeupConfig) { c.ExpiryDays = 7; c.ReminderOffsets = []int{7, 3} }},
		{"zero offset", func(c *domain.MakeupConfig) { c.ReminderOffsets = []int{3, 0} }},
		{"zero expiry", func(c *domain.MakeupConfig) { c.ExpiryDays = 0 }},
		{"unknown reason", func(c *domain.MakeupConfig) { c.ValidReasons = []domain.CancellationReason{"bored"} }},
		{"unknown timezone", func(c *domain.MakeupConfig) { c.Timezone = "Mars/Olympus" }},
		{"missing tenant", func(c *domain.MakeupConfig) { c.TenantID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultMakeupConfig("tenant-1")
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMakeupConfig_EmptyReasonsIsValid(t *testing.T) {
	// Пустой список причин - осознанная блокировка, а не ошибка конфигурации
	cfg := domain.DefaultMakeupConfig("tenant-1")
	cfg.ValidReasons = nil
	assert.NoError(t, cfg.Validate())
}
