package cancel_credit

// CancelCreditRequest HTTP request model
type CancelCreditRequest struct {
	Reason          string `json:"reason" validate:"max=500"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty" validate:"omitempty,gt=0"`
}
