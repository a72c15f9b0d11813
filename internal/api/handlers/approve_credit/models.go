package approve_credit

import "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"

// DecisionResponse HTTP response model
type DecisionResponse struct {
	Credit   *ledger.CreditResponse `json:"credit"`
	Notified bool                   `json:"notified"`
}
