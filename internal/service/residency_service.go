package service

import (
	"context"
	"errors"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/repository"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// ResidencyService answers residency and membership queries.
type ResidencyService struct {
	residencies repository.ResidencyRepository
	users       repository.UserRepository
	limits      config.ResidencyConfig
}

// ResidencyInfo describes a residency with its members split by role.
type ResidencyInfo struct {
	Residency       domain.Residency
	Users           []domain.User
	Admins          []domain.User
	RemainingUsers  int
	RemainingAdmins int
}

// NewResidencyService constructs the service.
func NewResidencyService(residencies repository.ResidencyRepository, users repository.UserRepository, limits config.ResidencyConfig) *ResidencyService {
	return &ResidencyService{residencies: residencies, users: users, limits: limits}
}

// List returns every residency.
func (s *ResidencyService) List(ctx context.Context) ([]domain.Residency, error) {
	return s.residencies.List(ctx)
}

// Get loads one residency.
func (s *ResidencyService) Get(ctx context.Context, id string) (*domain.Residency, error) {
	residency, err := s.residencies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("residency", map[string]any{"id": id})
		}
		return nil, err
	}
	return residency, nil
}

// Members lists the residency's members in registration order.
func (s *ResidencyService) Members(ctx context.Context, residencyID string) ([]domain.User, error) {
	return s.users.ListByResidency(ctx, residencyID)
}

// Info returns the residency, its members and remaining capacity per role.
func (s *ResidencyService) Info(ctx context.Context, residencyID string) (*ResidencyInfo, error) {
	residency, err := s.Get(ctx, residencyID)
	if err != nil {
		return nil, err
	}
	members, err := s.users.ListByResidency(ctx, residencyID)
	if err != nil {
		return nil, err
	}

	info := &ResidencyInfo{Residency: *residency, Users: []domain.User{}, Admins: []domain.User{}}
	for _, member := range members {
		if member.IsAdmin() {
			info.Admins = append(info.Admins, member)
		} else {
			info.Users = append(info.Users, member)
		}
	}
	info.RemainingUsers = max(s.limits.MaxUsers-len(info.Users), 0)
	info.RemainingAdmins = max(s.limits.MaxAdmins-len(info.Admins), 0)
	return info, nil
}
