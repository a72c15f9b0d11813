package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	grouprepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/group"
)

// GroupRepository хранилище групповых занятий в памяти процесса
type GroupRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.GroupSession
}

// NewGroupRepository создает пустое хранилище групповых занятий
func NewGroupRepository() *GroupRepository {
	return &GroupRepository{sessions: make(map[uuid.UUID]*domain.GroupSession)}
}

func (r *GroupRepository) Create(_ context.Context, session *domain.GroupSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *GroupRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.GroupSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, grouprepo.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (r *GroupRepository) UpdateWithVersion(_ context.Context, session *domain.GroupSession, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok || stored.Version != expectedVersion {
		return grouprepo.ErrStaleVersion
	}

	session.Version = expectedVersion + 1
	r.sessions[session.ID] = session.Clone()
	return nil
}
