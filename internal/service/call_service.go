package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatterbox-im/chatterbox/internal/domain"
	"github.com/chatterbox-im/chatterbox/internal/logger"
	"github.com/chatterbox-im/chatterbox/internal/repository"
)

// CallService keeps the call log: a call starts in the calling state
// and ends either completed with a duration or missed.
type CallService struct {
	callRepo repository.CallRepository
	auth     *AuthService
	eventBus domain.EventBus
	log      zerolog.Logger
}

func NewCallService(callRepo repository.CallRepository, auth *AuthService, eventBus domain.EventBus) *CallService {
	return &CallService{
		callRepo: callRepo,
		auth:     auth,
		eventBus: eventBus,
		log:      logger.Module("calls"),
	}
}

func (s *CallService) Initiate(ctx context.Context, calleeID string, callType domain.CallType) (*domain.Call, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	call := domain.NewCall(uuid.NewString(), user.ID, calleeID, callType, domain.CallDirectionOutgoing, time.Now())
	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to store call: %w", err)
	}

	s.log.Info().Str("call_id", call.ID).Str("type", string(callType)).Msg("call initiated")
	s.eventBus.Publish(domain.CallLoggedEvent{Call: call, EventTime: time.Now()})
	return call, nil
}

func (s *CallService) Complete(ctx context.Context, callID string, durationSeconds int) error {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		return fmt.Errorf("failed to load call: %w", err)
	}
	if call == nil {
		return domain.ErrNotFound
	}

	call.Status = domain.CallStatusCompleted
	call.Duration = &durationSeconds
	if err := s.callRepo.Update(ctx, call); err != nil {
		return fmt.Errorf("failed to save call: %w", err)
	}
	return nil
}

func (s *CallService) Miss(ctx context.Context, callID string) error {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		return fmt.Errorf("failed to load call: %w", err)
	}
	if call == nil {
		return domain.ErrNotFound
	}

	call.Status = domain.CallStatusMissed
	call.Duration = nil
	if err := s.callRepo.Update(ctx, call); err != nil {
		return fmt.Errorf("failed to save call: %w", err)
	}
	return nil
}

// History lists the current user's calls, newest first.
func (s *CallService) History(ctx context.Context) ([]*domain.Call, error) {
	user, err := s.auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	calls, err := s.callRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	mine := make([]*domain.Call, 0, len(calls))
	for _, call := range calls {
		if call.Involves(user.ID) {
			mine = append(mine, call)
		}
	}
	return mine, nil
}
