package service

import (
	"context"

	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/repository"
)

// DashboardService assembles the resident and admin home screens.
type DashboardService struct {
	complaints  repository.ComplaintRepository
	residencies *ResidencyService
}

// UserDashboard is a resident's view of their own complaints.
type UserDashboard struct {
	Residency   domain.Residency
	MemberCount int
	Complaints  []domain.Complaint
	Stats       domain.ComplaintStats
}

// AdminDashboard is an admin's view of their residency. Stats always cover
// every complaint; Complaints honour the status filter.
type AdminDashboard struct {
	Residency  domain.Residency
	UserCount  int
	AdminCount int
	Complaints []domain.Complaint
	Stats      domain.ComplaintStats
}

// NewDashboardService constructs the service.
func NewDashboardService(complaints repository.ComplaintRepository, residencies *ResidencyService) *DashboardService {
	return &DashboardService{complaints: complaints, residencies: residencies}
}

// ForUser builds the resident dashboard.
func (s *DashboardService) ForUser(ctx context.Context, user *domain.User) (*UserDashboard, error) {
	residency, err := s.residencies.Get(ctx, user.ResidencyID)
	if err != nil {
		return nil, err
	}
	members, err := s.residencies.Members(ctx, user.ResidencyID)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.List(ctx, repository.ComplaintFilter{UserID: &user.ID})
	if err != nil {
		return nil, err
	}
	return &UserDashboard{
		Residency:   *residency,
		MemberCount: len(members),
		Complaints:  complaints,
		Stats:       domain.CountComplaints(complaints),
	}, nil
}

// ForAdmin builds the admin dashboard.
func (s *DashboardService) ForAdmin(ctx context.Context, admin *domain.User, statuses []domain.ComplaintStatus) (*AdminDashboard, error) {
	info, err := s.residencies.Info(ctx, admin.ResidencyID)
	if err != nil {
		return nil, err
	}
	all, err := s.complaints.List(ctx, repository.ComplaintFilter{ResidencyID: &admin.ResidencyID})
	if err != nil {
		return nil, err
	}

	filtered := all
	if len(statuses) > 0 {
		filter := repository.ComplaintFilter{Statuses: statuses}
		filtered = make([]domain.Complaint, 0, len(all))
		for i := range all {
			if filter.Matches(&all[i]) {
				filtered = append(filtered, all[i])
			}
		}
	}

	return &AdminDashboard{
		Residency:  info.Residency,
		UserCount:  len(info.Users),
		AdminCount: len(info.Admins),
		Complaints: filtered,
		Stats:      domain.CountComplaints(all),
	}, nil
}
