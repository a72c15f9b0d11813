package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/dbmetrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/psqlbuilder"
)

const (
	tableName = "makeup_credits"

	// pqUniqueViolation код ошибки PostgreSQL при нарушении уникальности
	pqUniqueViolation = "23505"

	defaultQueryLimit = 500
)

var columns = []string{
	"id",
	"tenant_id",
	"student_id",
	"original_lesson_id",
	"category",
	"reason",
	"reason_details",
	"status",
	"created_at",
	"expires_at",
	"used_at",
	"used_lesson_id",
	"booked_for",
	"reminders_sent",
	"validated_by",
	"validated_at",
	"cancelled_by",
	"cancel_reason",
	"version",
	"updated_at",
}

// Repository репозиторий кредитов отработки в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кредитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый кредит
// Повторный кредит для того же original_lesson_id возвращает ErrDuplicateLesson
func (r *Repository) Create(ctx context.Context, credit *domain.MakeupCredit) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns...).
		Values(
			credit.ID,
			credit.TenantID,
			credit.StudentID,
			credit.OriginalLessonID,
			credit.Category,
			string(credit.Reason),
			credit.ReasonDetails,
			string(credit.Status),
			credit.CreatedAt,
			credit.ExpiresAt,
			credit.UsedAt,
			credit.UsedLessonID,
			credit.BookedFor,
			pq.Array(intsToInt64(credit.RemindersSent)),
			credit.ValidatedBy,
			credit.ValidatedAt,
			credit.CancelledBy,
			credit.CancelReason,
			credit.Version,
			credit.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLesson
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает кредит по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MakeupCredit, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByOriginalLessonID получает кредит, выпущенный за отмену урока
func (r *Repository) GetByOriginalLessonID(ctx context.Context, lessonID string) (*domain.MakeupCredit, error) {
	return r.getOne(ctx, "GetByOriginalLessonID", squirrel.Eq{"original_lesson_id": lessonID})
}

// ListByUsedLessonID получает кредиты, забронированные на урок
// Групповой урок может использовать несколько кредитов
func (r *Repository) ListByUsedLessonID(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error) {
	return r.Query(ctx, domain.CreditFilter{UsedLessonID: &lessonID})
}

// Query получает кредиты по фильтру
// Пустой TenantID допускается только для внутренних выборок (планировщик, события уроков)
func (r *Repository) Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	if filter.TenantID != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"tenant_id": filter.TenantID})
	}
	if filter.StudentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"student_id": *filter.StudentID})
	}
	if filter.Category != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.UsedLessonID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"used_lesson_id": *filter.UsedLessonID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.ExpiresFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"expires_at": *filter.ExpiresFrom})
	}
	if filter.ExpiresTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"expires_at": *filter.ExpiresTo})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	selectBuilder = selectBuilder.
		OrderBy("expires_at ASC, id ASC").
		Limit(uint64(limit)).
		Offset(uint64(max(filter.Offset, 0)))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	credits := make([]*domain.MakeupCredit, 0)
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Query - scan row: %v", ErrScanRow, err)
		}
		credits = append(credits, credit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Query - rows error: %v", ErrScanRow, err)
	}

	return credits, nil
}

// CountActive считает незавершенные кредиты студента в категории
func (r *Repository) CountActive(ctx context.Context, tenantID, studentID, category string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.NonTerminalStatuses))
	for i, s := range domain.NonTerminalStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"tenant_id":  tenantID,
			"student_id": studentID,
			"category":   category,
			"status":     statuses,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateWithVersion сохраняет кредит, если его версия в БД равна expectedVersion
// Версия увеличивается на единицу; при расхождении возвращает ErrStaleVersion и ничего не меняет
func (r *Repository) UpdateWithVersion(ctx context.Context, credit *domain.MakeupCredit, expectedVersion int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(credit.Status)).
		Set("used_at", credit.UsedAt).
		Set("used_lesson_id", credit.UsedLessonID).
		Set("booked_for", credit.BookedFor).
		Set("reminders_sent", pq.Array(intsToInt64(credit.RemindersSent))).
		Set("validated_by", credit.ValidatedBy).
		Set("validated_at", credit.ValidatedAt).
		Set("cancelled_by", credit.CancelledBy).
		Set("cancel_reason", credit.CancelReason).
		Set("version", expectedVersion+1).
		Set("updated_at", credit.UpdatedAt).
		Where(squirrel.Eq{"id": credit.ID, "version": expectedVersion}).
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

	credit.Version = expectedVersion + 1
	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.MakeupCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName).Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	credit, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan credit: %v", ErrScanRow, op, err)
	}

	return credit, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCredit(row rowScanner) (*domain.MakeupCredit, error) {
	var credit domain.MakeupCredit
	var reason, status string
	var reminders []int64

	err := row.Scan(
		&credit.ID,
		&credit.TenantID,
		&credit.StudentID,
		&credit.OriginalLessonID,
		&credit.Category,
		&reason,
		&credit.ReasonDetails,
		&status,
		&credit.CreatedAt,
		&credit.ExpiresAt,
		&credit.UsedAt,
		&credit.UsedLessonID,
		&credit.BookedFor,
		pq.Array(&reminders),
		&credit.ValidatedBy,
		&credit.ValidatedAt,
		&credit.CancelledBy,
		&credit.CancelReason,
		&credit.Version,
		&credit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	credit.Reason = domain.CancellationReason(reason)
	credit.Status = domain.CreditStatus(status)
	credit.RemindersSent = make([]int, 0, len(reminders))
	for _, offset := range reminders {
		credit.RemindersSent = append(credit.RemindersSent, int(offset))
	}

	return &credit, nil
}

func intsToInt64(values []int) []int64 {
	result := make([]int64, 0, len(values))
	for _, v := range values {
		result = append(result, int64(v))
	}
	return result
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
