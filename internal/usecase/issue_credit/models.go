package issue_credit

import "github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"

// Result результат обработки события отмены
type Result struct {
	Credit   *domain.MakeupCredit
	Created  bool // false для повторно доставленного события
	Notified bool
}
