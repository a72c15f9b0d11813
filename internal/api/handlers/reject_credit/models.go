package reject_credit

import "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"

// RejectCreditRequest HTTP request model
type RejectCreditRequest struct {
	Reason string `json:"reason" validate:"notblank,max=500"`
}

// DecisionResponse HTTP response model
type DecisionResponse struct {
	Credit   *ledger.CreditResponse `json:"credit"`
	Notified bool                   `json:"notified"`
}
