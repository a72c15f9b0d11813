package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/dbmetrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/psqlbuilder"
)

const (
	sessionsTable     = "group_sessions"
	participantsTable = "group_participants"
)

// Repository репозиторий групповых занятий в PostgreSQL
// Create и Update пишут в две таблицы и должны вызываться внутри транзакции (txmanager)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория групповых занятий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет занятие вместе с приглашенными участниками
func (r *Repository) Create(ctx context.Context, session *domain.GroupSession) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(sessionsTable).
		Columns("id", "tenant_id", "category", "lesson_id", "starts_at", "capacity", "status", "created_by", "version", "created_at", "updated_at").
		Values(
			session.ID,
			session.TenantID,
			session.Category,
			session.LessonID,
			session.StartsAt,
			session.Capacity,
			string(session.Status),
			session.CreatedBy,
			session.Version,
			session.CreatedAt,
			session.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if len(session.Participants) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(participantsTable).
		Columns("session_id", "credit_id", "student_id", "state", "responded_at")
	for _, p := range session.Participants {
		insert = insert.Values(session.ID, p.CreditID, p.StudentID, string(p.State), p.RespondedAt)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build participants query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - insert participants: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает занятие вместе с участниками
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "tenant_id", "category", "lesson_id", "starts_at", "capacity", "status", "created_by", "version", "created_at", "updated_at").
		From(sessionsTable).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var session domain.GroupSession
	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.TenantID,
		&session.Category,
		&session.LessonID,
		&session.StartsAt,
		&session.Capacity,
		&status,
		&session.CreatedBy,
		&session.Version,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}
	session.Status = domain.GroupSessionStatus(status)

	participants, err := r.listParticipants(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	session.Participants = participants

	return &session, nil
}

// UpdateWithVersion сохраняет статус занятия и ответы участников
// При расхождении версии возвращает ErrStaleVersion
func (r *Repository) UpdateWithVersion(ctx context.Context, session *domain.GroupSession, expectedVersion int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(sessionsTable).
		Set("status", string(session.Status)).
		Set("version", expectedVersion+1).
		Set("updated_at", session.UpdatedAt).
		Where(squirrel.Eq{"id": session.ID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStaleVersion
	}

	for _, p := range session.Participants {
		query, args, err := psqlbuilder.Update(participantsTable).
			Set("state", string(p.State)).
			Set("responded_at", p.RespondedAt).
			Where(squirrel.Eq{"session_id": session.ID, "credit_id": p.CreditID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateWithVersion - build participant query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateWithVersion - update participant: %v", ErrExecQuery, err)
		}
	}

	session.Version = expectedVersion + 1
	return nil
}

func (r *Repository) listParticipants(ctx context.Context, executor DBExecutor, sessionID uuid.UUID) ([]domain.GroupParticipant, error) {
	query, args, err := psqlbuilder.Select("credit_id", "student_id", "state", "responded_at").
		From(participantsTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	participants := make([]domain.GroupParticipant, 0)
	for rows.Next() {
		var p domain.GroupParticipant
		var state string
		if err := rows.Scan(&p.CreditID, &p.StudentID, &state, &p.RespondedAt); err != nil {
			return nil, fmt.Errorf("%w: listParticipants - scan row: %v", ErrScanRow, err)
		}
		p.State = domain.ParticipantState(state)
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listParticipants - rows error: %v", ErrScanRow, err)
	}

	return participants, nil
}
