package domain

// CancellationReason why the original lesson was cancelled
type CancellationReason string

const (
	ReasonIllnessWithCertificate    CancellationReason = "illness_with_certificate"
	ReasonIllnessWithoutCertificate CancellationReason = "illness_without_certificate"
	ReasonInstructorUnavailable     CancellationReason = "instructor_unavailable"
	ReasonVehicleBreakdown          CancellationReason = "vehicle_breakdown"
	ReasonWeatherConditions         CancellationReason = "weather_conditions"
	ReasonFamilyEmergency           CancellationReason = "family_emergency"
	ReasonProfessionalObligation    CancellationReason = "professional_obligation"
	ReasonOtherJustified            CancellationReason = "other_justified"
	ReasonStudentNoShow             CancellationReason = "student_no_show"
	ReasonLateCancellation          CancellationReason = "late_cancellation"
)

// KnownReasons every reason the platform can emit
var KnownReasons = []CancellationReason{
	ReasonIllnessWithCertificate,
	ReasonIllnessWithoutCertificate,
	ReasonInstructorUnavailable,
	ReasonVehicleBreakdown,
	ReasonWeatherConditions,
	ReasonFamilyEmergency,
	ReasonProfessionalObligation,
	ReasonOtherJustified,
	ReasonStudentNoShow,
	ReasonLateCancellation,
}

// IsKnown returns true for reasons listed in KnownReasons
func (r CancellationReason) IsKnown() bool {
	for _, known := range KnownReasons {
		if r == known {
			return true
		}
	}
	return false
}
