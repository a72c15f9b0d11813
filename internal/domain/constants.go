package domain

// Default configuration values
const (
	DefaultMaxDaysFromCancellation = 7
	DefaultExpiryDays              = 30
	DefaultMinBookingLeadHours     = 24
	DefaultBookedGraceHours        = 24
	DefaultTimezone                = "Europe/Zurich"
)

// DefaultReminderOffsets reminders 7, 3 and 1 day before expiry
var DefaultReminderOffsets = []int{7, 3, 1}

// DefaultValidReasons reasons that qualify for a makeup credit out of the box
var DefaultValidReasons = []CancellationReason{
	ReasonIllnessWithCertificate,
	ReasonInstructorUnavailable,
	ReasonVehicleBreakdown,
	ReasonWeatherConditions,
	ReasonFamilyEmergency,
}

// Business validation constants
const (
	MinExpiryDays                = 1
	MaxExpiryDays                = 365
	MaxDaysFromCancellationLimit = 90
	MaxReminderOffsetDays        = 90
	MaxBookingLeadHours          = 336 // 2 weeks
	MaxBookedGraceHours          = 168 // 1 week
	MaxReasonDetailsLength       = 500
	MaxCancelReasonLength        = 500
)

// Time format constants
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04"
)
