package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	creditrepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/credit"
)

const defaultQueryLimit = 500

// CreditRepository хранилище кредитов в памяти процесса
// Возвращает те же ошибки, что и PostgreSQL-репозиторий, версия сравнивается под мьютексом
type CreditRepository struct {
	mu       sync.RWMutex
	credits  map[uuid.UUID]*domain.MakeupCredit
	byLesson map[string]uuid.UUID
}

// NewCreditRepository создает пустое хранилище кредитов
func NewCreditRepository() *CreditRepository {
	return &CreditRepository{
		credits:  make(map[uuid.UUID]*domain.MakeupCredit),
		byLesson: make(map[string]uuid.UUID),
	}
}

func (r *CreditRepository) Create(_ context.Context, credit *domain.MakeupCredit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byLesson[credit.OriginalLessonID]; exists {
		return creditrepo.ErrDuplicateLesson
	}

	r.credits[credit.ID] = credit.Clone()
	r.byLesson[credit.OriginalLessonID] = credit.ID
	return nil
}

func (r *CreditRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.MakeupCredit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	credit, ok := r.credits[id]
	if !ok {
		return nil, creditrepo.ErrCreditNotFound
	}
	return credit.Clone(), nil
}

func (r *CreditRepository) GetByOriginalLessonID(_ context.Context, lessonID string) (*domain.MakeupCredit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLesson[lessonID]
	if !ok {
		return nil, creditrepo.ErrCreditNotFound
	}
	return r.credits[id].Clone(), nil
}

func (r *CreditRepository) ListByUsedLessonID(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error) {
	return r.Query(ctx, domain.CreditFilter{UsedLessonID: &lessonID})
}

func (r *CreditRepository) Query(_ context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error) {
	r.mu.RLock()
	matched := make([]*domain.MakeupCredit, 0)
	for _, credit := range r.credits {
		if matches(credit, filter) {
			matched = append(matched, credit.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ExpiresAt.Equal(matched[j].ExpiresAt) {
			return matched[i].ExpiresAt.Before(matched[j].ExpiresAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	offset := max(filter.Offset, 0)
	if offset >= len(matched) {
		return []*domain.MakeupCredit{}, nil
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	end := min(offset+limit, len(matched))

	return matched[offset:end], nil
}

func (r *CreditRepository) CountActive(_ context.Context, tenantID, studentID, category string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, credit := range r.credits {
		if credit.TenantID == tenantID && credit.StudentID == studentID &&
			credit.Category == category && !credit.IsTerminal() {
			count++
		}
	}
	return count, nil
}

func (r *CreditRepository) UpdateWithVersion(_ context.Context, credit *domain.MakeupCredit, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.credits[credit.ID]
	if !ok || stored.Version != expectedVersion {
		return creditrepo.ErrStaleVersion
	}

	credit.Version = expectedVersion + 1
	r.credits[credit.ID] = credit.Clone()
	return nil
}

func matches(credit *domain.MakeupCredit, filter domain.CreditFilter) bool {
	if filter.TenantID != "" && credit.TenantID != filter.TenantID {
		return false
	}
	if filter.StudentID != nil && credit.StudentID != *filter.StudentID {
		return false
	}
	if filter.Category != nil && credit.Category != *filter.Category {
		return false
	}
	if filter.UsedLessonID != nil && (credit.UsedLessonID == nil || *credit.UsedLessonID != *filter.UsedLessonID) {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if credit.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.ExpiresFrom != nil && credit.ExpiresAt.Before(*filter.ExpiresFrom) {
		return false
	}
	if filter.ExpiresTo != nil && !credit.ExpiresAt.Before(*filter.ExpiresTo) {
		return false
	}
	return true
}
