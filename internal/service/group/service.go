package group

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	groupRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/group"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
)

// Service групповые занятия отработки
// Каждый участник расходует свой кредит через журнал кредитов
type Service struct {
	sessionRepo  SessionRepository
	ledger       CreditLedger
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса групповых занятий
func NewService(sessionRepo SessionRepository, credits CreditLedger, logger Logger) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		ledger:       credits,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create создает занятие и приглашает кредиты, доступно только администратору
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.GroupSession, error) {
	if req.Actor.Kind != domain.ActorAdmin {
		return nil, ErrAccessDenied
	}
	if err := validateCreate(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()
	if !req.StartsAt.After(now) {
		return nil, fmt.Errorf("%w: startsAt must be in the future", ErrInvalidInput)
	}

	participants := make([]domain.GroupParticipant, 0, len(req.CreditIDs))
	for _, creditID := range req.CreditIDs {
		credit, err := s.ledger.Get(ctx, creditID)
		if err != nil {
			if errors.Is(err, ledger.ErrCreditNotFound) {
				return nil, fmt.Errorf("%w: credit %s not found", ErrCreditNotAvailable, creditID)
			}
			s.logger.Error("Create: failed to get credit=%s: %v", creditID, err)
			return nil, fmt.Errorf("%w: Create - ledger error: %v", ErrInternal, err)
		}
		if credit.TenantID != req.TenantID || credit.Category != req.Category || !credit.CanBeBooked(req.StartsAt) {
			s.logger.Warn("Create: credit=%s (%s, %s) cannot join session of category=%s", credit.ID, credit.Category, credit.Status, req.Category)
			return nil, fmt.Errorf("%w: credit %s", ErrCreditNotAvailable, creditID)
		}
		participants = append(participants, domain.GroupParticipant{
			CreditID:  credit.ID,
			StudentID: credit.StudentID,
			State:     domain.ParticipantInvited,
		})
	}

	session := &domain.GroupSession{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		Category:     req.Category,
		LessonID:     strings.TrimSpace(req.LessonID),
		StartsAt:     req.StartsAt.UTC(),
		Capacity:     req.Capacity,
		Status:       domain.GroupSessionOpen,
		CreatedBy:    req.Actor.ID,
		Participants: participants,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Create: failed to save session for lesson=%s: %v", session.LessonID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: session=%s lesson=%s capacity=%d invited=%d", session.ID, session.LessonID, session.Capacity, len(participants))
	return session.Clone(), nil
}

// Get получает занятие в пределах автошколы
func (s *Service) Get(ctx context.Context, tenantID string, sessionID uuid.UUID) (*domain.GroupSession, error) {
	session, err := s.get(ctx, "Get", sessionID)
	if err != nil {
		return nil, err
	}
	if tenantID != "" && session.TenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Respond принимает или отклоняет приглашение
// Принятие бронирует кредит участника на урок занятия, отказ кредит не меняет
func (s *Service) Respond(ctx context.Context, req *RespondRequest) (*domain.GroupSession, error) {
	s.logger.Info("Respond: session=%s credit=%s accept=%t", req.SessionID, req.CreditID, req.Accept)

	session, err := s.Get(ctx, req.TenantID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionClosed
	}

	participant, ok := session.Participant(req.CreditID)
	if !ok {
		return nil, ErrNotInvited
	}
	if req.Actor.Kind == domain.ActorStudent && req.Actor.ID != participant.StudentID {
		return nil, ErrAccessDenied
	}
	if participant.State != domain.ParticipantInvited {
		return nil, ErrAlreadyResponded
	}

	now := s.timeProvider.Now()
	participant.RespondedAt = ptr.Ptr(now)

	if !req.Accept {
		participant.State = domain.ParticipantDeclined
		return s.save(ctx, "Respond", session, now)
	}

	startsAt := session.StartsAt
	_, err = s.ledger.Transition(ctx, ledger.TransitionRequest{
		CreditID: req.CreditID,
		Target:   domain.CreditStatusBooked,
		Actor:    req.Actor,
		Metadata: ledger.TransitionMetadata{UsedLessonID: session.LessonID, BookedFor: &startsAt},
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTransition) || errors.Is(err, ledger.ErrStaleVersion) {
			s.logger.Warn("Respond: credit=%s cannot be booked: %v", req.CreditID, err)
			return nil, fmt.Errorf("%w: %v", ErrCreditNotAvailable, err)
		}
		s.logger.Error("Respond: failed to book credit=%s: %v", req.CreditID, err)
		return nil, fmt.Errorf("%w: Respond - ledger error: %v", ErrInternal, err)
	}

	participant.State = domain.ParticipantAccepted
	if session.AcceptedCount() >= session.Capacity {
		session.Status = domain.GroupSessionFull
	}

	saved, err := s.save(ctx, "Respond", session, now)
	if err != nil {
		// Занятие не сохранено, кредит возвращается участнику
		s.release(ctx, req.CreditID, session.LessonID)
		return nil, err
	}
	return saved, nil
}

// Cancel отменяет занятие, принятые кредиты снова становятся доступными
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, tenantID string, sessionID uuid.UUID) (*domain.GroupSession, error) {
	if actor.Kind != domain.ActorAdmin {
		return nil, ErrAccessDenied
	}

	session, err := s.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.GroupSessionCancelled {
		return session, nil
	}

	session.Status = domain.GroupSessionCancelled
	saved, err := s.save(ctx, "Cancel", session, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	for _, p := range saved.Participants {
		if p.State == domain.ParticipantAccepted {
			s.release(ctx, p.CreditID, saved.LessonID)
		}
	}

	s.logger.Info("Cancel: session=%s cancelled by %s", saved.ID, actor.ID)
	return saved, nil
}

func (s *Service) get(ctx context.Context, op string, sessionID uuid.UUID) (*domain.GroupSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, groupRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("%s: failed to get session=%s: %v", op, sessionID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, op string, session *domain.GroupSession, now time.Time) (*domain.GroupSession, error) {
	expected := session.Version
	session.UpdatedAt = now

	if err := s.sessionRepo.UpdateWithVersion(ctx, session, expected); err != nil {
		if errors.Is(err, groupRepo.ErrStaleVersion) {
			s.logger.Warn("%s: session=%s changed concurrently (version %d)", op, session.ID, expected)
			return nil, ErrStaleVersion
		}
		s.logger.Error("%s: failed to save session=%s: %v", op, session.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return session.Clone(), nil
}

// release booked -> available для кредита участника
// Кредит, забронированный уже на другой урок, не трогаем
func (s *Service) release(ctx context.Context, creditID uuid.UUID, lessonID string) {
	credit, err := s.ledger.Get(ctx, creditID)
	if err != nil {
		s.logger.Error("Release: failed to get credit=%s: %v", creditID, err)
		return
	}
	if credit.Status != domain.CreditStatusBooked || credit.UsedLessonID == nil || *credit.UsedLessonID != lessonID {
		s.logger.Info("Release: credit=%s is %s, not booked onto lesson=%s, skipping", creditID, credit.Status, lessonID)
		return
	}

	if _, err := s.ledger.Transition(ctx, ledger.TransitionRequest{
		CreditID:        creditID,
		Target:          domain.CreditStatusAvailable,
		Actor:           domain.SystemActor,
		ExpectedVersion: &credit.Version,
	}); err != nil {
		s.logger.Error("Release: failed to reopen credit=%s: %v", creditID, err)
	}
}

func validateCreate(req *CreateRequest) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Category) == "" || req.Category == domain.CategoryAll {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.LessonID) == "" {
		return fmt.Errorf("%w: lessonId is required", ErrInvalidInput)
	}
	if req.Capacity <= 0 || req.Capacity > maxGroupCapacity {
		return fmt.Errorf("%w: capacity must be between 1 and %d", ErrInvalidInput, maxGroupCapacity)
	}
	if len(req.CreditIDs) == 0 {
		return fmt.Errorf("%w: at least one credit must be invited", ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]struct{}, len(req.CreditIDs))
	for _, id := range req.CreditIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: credit %s invited twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
