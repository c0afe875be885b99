package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/observability"
	"github.com/fixithub/complaint-service/internal/repository"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

const msgRequiredFields = "Please fill in all required fields."

// AuthService coordinates registration, login and logout.
type AuthService struct {
	residencies repository.ResidencyRepository
	users       repository.UserRepository
	tokens      *auth.TokenManager
	sessions    auth.SessionStore
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	limits      config.ResidencyConfig
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	ResidencyRepo repository.ResidencyRepository
	UserRepo      repository.UserRepository
	Tokens        *auth.TokenManager
	Sessions      auth.SessionStore
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Limits        config.ResidencyConfig
	Logger        *zap.Logger
}

// RegisterInput describes a registration request.
type RegisterInput struct {
	Username          string
	Phone             string
	Email             string
	Role              domain.Role
	ResidencyID       string
	WorkingProfession string
}

// AuthResult is a signed-in principal and its bearer token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	View      auth.View
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		residencies: deps.ResidencyRepo,
		users:       deps.UserRepo,
		tokens:      deps.Tokens,
		sessions:    deps.Sessions,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		limits:      deps.Limits,
		logger:      logger,
	}
}

// Register creates a member of a residency, unless that residency already
// holds the maximum number of members with the requested role, and signs
// the new member in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.ResidencyID = strings.TrimSpace(input.ResidencyID)
	input.WorkingProfession = strings.TrimSpace(input.WorkingProfession)
	if input.Role == "" {
		input.Role = domain.RoleUser
	}

	if input.Username == "" || input.Phone == "" || input.ResidencyID == "" {
		return nil, s.rejectRegistration(input.Role, "invalid", apperrors.NewValidationError(msgRequiredFields, nil))
	}
	if !input.Role.Valid() {
		return nil, s.rejectRegistration(input.Role, "invalid", apperrors.NewValidationError("Role must be user or admin.",
			map[string]any{"fields": map[string]string{"role": "oneof"}}))
	}
	if input.Role == domain.RoleAdmin && input.WorkingProfession == "" {
		return nil, s.rejectRegistration(input.Role, "invalid",
			apperrors.NewValidationError("Working profession is required for admin accounts.", nil))
	}

	if _, err := s.residencies.GetByID(ctx, input.ResidencyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.rejectRegistration(input.Role, "invalid",
				apperrors.NewNotFound("residency", map[string]any{"id": input.ResidencyID}))
		}
		return nil, err
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    input.Username,
		Phone:       input.Phone,
		Role:        input.Role,
		ResidencyID: input.ResidencyID,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}
	if input.Role == domain.RoleAdmin {
		user.WorkingProfession = &input.WorkingProfession
	}

	limit := s.limitFor(input.Role)
	if err := s.users.Create(ctx, user, limit); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, s.rejectRegistration(input.Role, "capacity_reached", apperrors.NewCapacityReached(
				fmt.Sprintf("Maximum %d %ss allowed per residency.", limit, input.Role),
				map[string]any{"residencyId": input.ResidencyID, "role": input.Role, "limit": limit}))
		case errors.Is(err, repository.ErrNotFound):
			return nil, s.rejectRegistration(input.Role, "invalid",
				apperrors.NewNotFound("residency", map[string]any{"id": input.ResidencyID}))
		default:
			return nil, err
		}
	}
	s.metrics.RecordRegistration(string(input.Role), "created")
	s.logger.Info("member registered",
		zap.String("user_id", user.ID),
		zap.String("residency_id", user.ResidencyID),
		zap.String("role", string(user.Role)))

	s.publish(ctx, events.Event{
		Type:        events.EventUserRegistered,
		ResidencyID: user.ResidencyID,
		SubjectID:   user.ID,
		Actor:       events.Actor{UserID: user.ID, Role: user.Role},
		Payload:     events.UserRegisteredPayload{Username: user.Username, Role: user.Role},
	})

	return s.openSession(ctx, user)
}

// Login signs in the member whose phone or username equals identifier.
func (s *AuthService) Login(ctx context.Context, identifier string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.NewValidationError(msgRequiredFields, nil)
	}
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("No account found with that phone number or username.")
		}
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, session, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		View:      auth.LandingView(&auth.Principal{User: user, SessionID: session.ID}),
	}, nil
}

func (s *AuthService) limitFor(role domain.Role) int {
	if role == domain.RoleAdmin {
		return s.limits.MaxAdmins
	}
	return s.limits.MaxUsers
}

func (s *AuthService) rejectRegistration(role domain.Role, result string, err error) error {
	label := string(role)
	if !role.Valid() {
		label = "unknown"
	}
	s.metrics.RecordRegistration(label, result)
	return err
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
