package validate_credit

import (
	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// Decision решение администратора по кредиту
type Decision struct {
	CreditID uuid.UUID
	AdminID  string
	TenantID string // автошкола администратора
	Reason   string // причина отклонения
}

// Result результат решения
type Result struct {
	Credit   *domain.MakeupCredit
	Notified bool // студент уведомлен
}
