package domain

import (
	"fmt"
	"time"
)

// CategoryAll config applies to every licence category of the tenant
const CategoryAll = "all"

// MakeupConfig makeup rules of a tenant for a licence category
// Supports hierarchical configuration:
// 1. Category-specific (tenant_id, category)
// 2. Tenant-wide (tenant_id, "all")
// 3. Built-in defaults
type MakeupConfig struct {
	ID                      int64
	TenantID                string
	Category                string
	MaxDaysFromCancellation int
	ExpiryDays              int
	ValidReasons            []CancellationReason
	RequiresAdminValidation bool
	AutoNotifyStudent       bool
	ReminderOffsets         []int // days before expiry, strictly decreasing
	MinBookingLeadHours     int
	AllowMultipleCredits    bool
	BookedGraceHours        int    // how long a booked lesson may stay unresolved past its start
	Timezone                string // IANA time zone of the tenant
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultMakeupConfig returns the built-in configuration used when a tenant has none
func DefaultMakeupConfig(tenantID string) *MakeupConfig {
	return &MakeupConfig{
		TenantID:                tenantID,
		Category:                CategoryAll,
		MaxDaysFromCancellation: DefaultMaxDaysFromCancellation,
		ExpiryDays:              DefaultExpiryDays,
		ValidReasons:            append([]CancellationReason(nil), DefaultValidReasons...),
		RequiresAdminValidation: false,
		AutoNotifyStudent:       true,
		ReminderOffsets:         append([]int(nil), DefaultReminderOffsets...),
		MinBookingLeadHours:     DefaultMinBookingLeadHours,
		AllowMultipleCredits:    true,
		BookedGraceHours:        DefaultBookedGraceHours,
		Timezone:                DefaultTimezone,
	}
}

// IsTenantWide returns true if the config is the tenant-wide fallback
func (c *MakeupConfig) IsTenantWide() bool {
	return c.Category == CategoryAll
}

// IsDefault returns true if the config was not loaded from storage
func (c *MakeupConfig) IsDefault() bool {
	return c.ID == 0
}

// ExpiryDuration validity window of a credit
func (c *MakeupConfig) ExpiryDuration() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

// BookingLead minimum notice between booking and lesson start
func (c *MakeupConfig) BookingLead() time.Duration {
	return time.Duration(c.MinBookingLeadHours) * time.Hour
}

// BookedGrace grace period after a booked lesson start before the credit may expire
func (c *MakeupConfig) BookedGrace() time.Duration {
	return time.Duration(c.BookedGraceHours) * time.Hour
}

// Location returns the tenant time zone, UTC if unknown
func (c *MakeupConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the invariants of the config
func (c *MakeupConfig) Validate() error {
	if c.TenantID == "" {
		return fmt.Errorf("tenantId is required")
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	if c.ExpiryDays < MinExpiryDays || c.ExpiryDays > MaxExpiryDays {
		return fmt.Errorf("expiryDays must be between %d and %d", MinExpiryDays, MaxExpiryDays)
	}
	if c.MaxDaysFromCancellation < 0 || c.MaxDaysFromCancellation > MaxDaysFromCancellationLimit {
		return fmt.Errorf("maxDaysFromCancellation must be between 0 and %d", MaxDaysFromCancellationLimit)
	}
	if c.MinBookingLeadHours < 0 || c.MinBookingLeadHours > MaxBookingLeadHours {
		return fmt.Errorf("minBookingLeadHours must be between 0 and %d", MaxBookingLeadHours)
	}
	if c.BookedGraceHours < 0 || c.BookedGraceHours > MaxBookedGraceHours {
		return fmt.Errorf("bookedGraceHours must be between 0 and %d", MaxBookedGraceHours)
	}
	for i, offset := range c.ReminderOffsets {
		if offset <= 0 {
			return fmt.Errorf("reminderOffsets must be positive")
		}
		if offset >= c.ExpiryDays {
			return fmt.Errorf("reminderOffsets must be lower than expiryDays")
		}
		if offset > MaxReminderOffsetDays {
			return fmt.Errorf("reminderOffsets must not exceed %d days", MaxReminderOffsetDays)
		}
		if i > 0 && offset >= c.ReminderOffsets[i-1] {
			return fmt.Errorf("reminderOffsets must be strictly decreasing")
		}
	}
	for _, reason := range c.ValidReasons {
		if !reason.IsKnown() {
			return fmt.Errorf("unknown cancellation reason %q", reason)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", c.Timezone)
		}
	}
	return nil
}
