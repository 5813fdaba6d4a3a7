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

// AuthService resolves the current user from the persisted session state
// and handles login and registration against the user collection.
type AuthService struct {
	userRepo  repository.UserRepository
	stateRepo repository.StateRepository
	log       zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, stateRepo repository.StateRepository) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		stateRepo: stateRepo,
		log:       logger.Module("auth"),
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
	Password  string
}

// Login matches phone and password against the user collection. On
// success the redacted user is persisted as the session snapshot. The
// failure message does not distinguish unknown phone from wrong
// password.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Password != password {
		return nil, domain.ErrInvalidCredentials
	}

	redacted := user.Redacted()
	if err := s.stateRepo.Set(ctx, repository.StateKeyCurrentUser, redacted); err != nil {
		return nil, fmt.Errorf("failed to persist session user: %w", err)
	}
	if err := s.stateRepo.Set(ctx, repository.StateKeyLoggedIn, true); err != nil {
		return nil, fmt.Errorf("failed to persist login flag: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return redacted, nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByPhone(ctx, input.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrPhoneTaken
	}

	user := domain.NewUser(uuid.NewString(), input.FirstName, input.LastName, input.Phone, input.Password, time.Now())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Registration opens a session right away.
	redacted := user.Redacted()
	if err := s.stateRepo.Set(ctx, repository.StateKeyCurrentUser, redacted); err != nil {
		return nil, fmt.Errorf("failed to persist session user: %w", err)
	}
	if err := s.stateRepo.Set(ctx, repository.StateKeyLoggedIn, true); err != nil {
		return nil, fmt.Errorf("failed to persist login flag: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return redacted, nil
}

// Logout clears the session state only; nothing else is invalidated.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.stateRepo.Delete(ctx, repository.StateKeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear session user: %w", err)
	}
	if err := s.stateRepo.Delete(ctx, repository.StateKeyLoggedIn); err != nil {
		return fmt.Errorf("failed to clear login flag: %w", err)
	}
	return nil
}

// CurrentUser returns the redacted session snapshot, or nil when no user
// is logged in.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	loggedIn, err := s.IsLoggedIn(ctx)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return nil, nil
	}

	var user domain.User
	found, err := s.stateRepo.Get(ctx, repository.StateKeyCurrentUser, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (s *AuthService) IsLoggedIn(ctx context.Context) (bool, error) {
	var flag bool
	found, err := s.stateRepo.Get(ctx, repository.StateKeyLoggedIn, &flag)
	if err != nil {
		return false, fmt.Errorf("failed to read login flag: %w", err)
	}
	return found && flag, nil
}

// RequireUser is CurrentUser with absence turned into ErrNotLoggedIn,
// for operations that need a caller.
func (s *AuthService) RequireUser(ctx context.Context) (*domain.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return user, nil
}

func (s *AuthService) UpdateStatus(ctx context.Context, status string) error {
	return s.updateCurrent(ctx, func(user *domain.User) {
		user.Status = status
	})
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Avatar    *string
	Status    *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	return s.updateCurrent(ctx, func(user *domain.User) {
		if update.FirstName != nil {
			user.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			user.LastName = *update.LastName
		}
		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}
		if update.Status != nil {
			user.Status = *update.Status
		}
	})
}

// updateCurrent applies a mutation to both the stored user record and
// the session snapshot.
func (s *AuthService) updateCurrent(ctx context.Context, apply func(*domain.User)) error {
	snapshot, err := s.RequireUser(ctx)
	if err != nil {
		return err
	}

	stored, err := s.userRepo.GetByID(ctx, snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if stored == nil {
		return domain.ErrNotFound
	}

	apply(stored)
	if err := s.userRepo.Upsert(ctx, stored); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	apply(snapshot)
	if err := s.stateRepo.Set(ctx, repository.StateKeyCurrentUser, snapshot); err != nil {
		return fmt.Errorf("failed to update session user: %w", err)
	}
	return nil
}
