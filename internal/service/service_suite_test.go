package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/observability"
	"github.com/fixithub/complaint-service/internal/repository"
	"github.com/fixithub/complaint-service/internal/seed"
	"github.com/fixithub/complaint-service/internal/storage"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	repos      repository.Repositories
	photos     storage.PhotoStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	registry   *prometheus.Registry
	published  []events.Event
	tokens     *auth.TokenManager

	auth       *AuthService
	residency  *ResidencyService
	complaints *ComplaintService
	dashboards *DashboardService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = repository.NewMemoryRepositories()
	limits := config.ResidencyConfig{MaxUsers: 15, MaxAdmins: 15}

	fixture, err := seed.Load("")
	s.Require().NoError(err)
	s.Require().NoError(seed.Apply(s.ctx, s.repos, fixture, limits, zap.NewNop()))

	s.photos = storage.NewMemoryPhotoStore("/api/v1/photos")
	s.dispatcher = events.NewInMemoryDispatcher()
	s.registry = prometheus.NewRegistry()
	s.metrics = observability.NewMetricsWithRegistry(s.registry, s.registry)
	s.published = nil
	record := func(_ context.Context, e events.Event) error {
		s.published = append(s.published, e)
		return nil
	}
	for _, t := range []events.EventType{
		events.EventUserRegistered, events.EventComplaintCreated,
		events.EventComplaintStatusChanged, events.EventComplaintDeleted,
	} {
		s.dispatcher.Subscribe(t, record)
	}

	s.tokens = auth.NewTokenManager("test-secret", time.Hour)
	s.auth = NewAuthService(AuthDependencies{
		ResidencyRepo: s.repos.Residencies,
		UserRepo:      s.repos.Users,
		Tokens:        s.tokens,
		Sessions:      auth.NewMemorySessionStore(),
		Dispatcher:    s.dispatcher,
		Metrics:       s.metrics,
		Limits:        limits,
	})
	s.residency = NewResidencyService(s.repos.Residencies, s.repos.Users, limits)
	s.complaints = NewComplaintService(ComplaintDependencies{
		ComplaintRepo: s.repos.Complaints,
		Photos:        s.photos,
		Dispatcher:    s.dispatcher,
		MaxPhotoBytes: 1024,
	})
	s.dashboards = NewDashboardService(s.repos.Complaints, s.residency)
}

func (s *ServiceSuite) user(id string) *domain.User {
	u, err := s.repos.Users.GetByID(s.ctx, id)
	s.Require().NoError(err)
	return u
}

func (s *ServiceSuite) requireCode(err error, code string) {
	s.Require().Error(err)
	s.Equal(code, apperrors.ToDomainError(err).Code, err.Error())
}

func (s *ServiceSuite) TestRegister_UserSignsIn() {
	result, err := s.auth.Register(s.ctx, RegisterInput{
		Username: " Asha Rao ", Phone: "+91 90000 00001", ResidencyID: "3",
	})
	s.Require().NoError(err)
	s.Equal("Asha Rao", result.User.Username)
	s.Equal(domain.RoleUser, result.User.Role)
	s.Nil(result.User.WorkingProfession)
	s.Equal(auth.ViewUserDashboard, result.View)
	s.NotEmpty(result.Token)

	s.Require().Len(s.published, 1)
	s.Equal(events.EventUserRegistered, s.published[0].Type)
	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(`
# HELP fixithub_registrations_total Registration attempts by role and result
# TYPE fixithub_registrations_total counter
fixithub_registrations_total{result="created",role="user"} 1
`), "fixithub_registrations_total"))
}

func (s *ServiceSuite) TestRegister_RequiredFields() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "x", ResidencyID: "1"})
	s.requireCode(err, "VALIDATION_FAILED")
	s.Equal("Please fill in all required fields.", apperrors.ToDomainError(err).Message)
}

func (s *ServiceSuite) TestRegister_AdminNeedsProfession() {
	_, err := s.auth.Register(s.ctx, RegisterInput{
		Username: "x", Phone: "1", ResidencyID: "1", Role: domain.RoleAdmin, WorkingProfession: "  ",
	})
	s.requireCode(err, "VALIDATION_FAILED")
	s.Equal("Working profession is required for admin accounts.", apperrors.ToDomainError(err).Message)

	result, err := s.auth.Register(s.ctx, RegisterInput{
		Username: "x", Phone: "1", ResidencyID: "1", Role: domain.RoleAdmin, WorkingProfession: "Painter",
	})
	s.Require().NoError(err)
	s.Equal(auth.ViewAdminDashboard, result.View)
	s.Equal("Painter", *result.User.WorkingProfession)
}

func (s *ServiceSuite) TestRegister_UnknownResidency() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "x", Phone: "1", ResidencyID: "99"})
	s.requireCode(err, "NOT_FOUND")
}

func (s *ServiceSuite) TestRegister_CapacityPerRole() {
	// residency 1 starts with 5 users and 4 admins
	for i := 0; i < 10; i++ {
		_, err := s.auth.Register(s.ctx, RegisterInput{Username: fmt.Sprintf("u%d", i), Phone: fmt.Sprintf("u%d", i), ResidencyID: "1"})
		s.Require().NoError(err)
	}
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "late", Phone: "late", ResidencyID: "1"})
	s.requireCode(err, "CAPACITY_REACHED")
	s.Equal("Maximum 15 users allowed per residency.", apperrors.ToDomainError(err).Message)

	// admins are counted separately
	_, err = s.auth.Register(s.ctx, RegisterInput{
		Username: "boss", Phone: "boss", ResidencyID: "1", Role: domain.RoleAdmin, WorkingProfession: "Gardener",
	})
	s.Require().NoError(err)

	s.NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(`
# HELP fixithub_registrations_total Registration attempts by role and result
# TYPE fixithub_registrations_total counter
fixithub_registrations_total{result="capacity_reached",role="user"} 1
fixithub_registrations_total{result="created",role="admin"} 1
fixithub_registrations_total{result="created",role="user"} 10
`), "fixithub_registrations_total"))

	info, err := s.residency.Info(s.ctx, "1")
	s.Require().NoError(err)
	s.Len(info.Users, 15)
	s.Len(info.Admins, 5)
	s.Equal(0, info.RemainingUsers)
	s.Equal(10, info.RemainingAdmins)
}

func (s *ServiceSuite) TestLoginAndLogout() {
	byPhone, err := s.auth.Login(s.ctx, " +91 98765 22221 ")
	s.Require().NoError(err)
	s.Equal("6", byPhone.User.ID)
	s.Equal(auth.ViewAdminDashboard, byPhone.View)

	byName, err := s.auth.Login(s.ctx, "John Smith")
	s.Require().NoError(err)
	s.Equal("1", byName.User.ID)

	_, err = s.auth.Login(s.ctx, "nobody")
	s.requireCode(err, "UNAUTHORIZED")

	claims, err := s.tokens.ParseToken(byName.Token)
	s.Require().NoError(err)
	s.Require().NoError(s.auth.Logout(s.ctx, claims.SessionID()))
}

func (s *ServiceSuite) TestCreateComplaint_InheritsCreator() {
	sarah := s.user("2")
	complaint, err := s.complaints.Create(s.ctx, sarah, ComplaintCreateInput{
		ProblemName: "Broken window", WorkerType: "Carpenter", Description: "Glass cracked",
	})
	s.Require().NoError(err)
	s.Equal(sarah.ResidencyID, complaint.ResidencyID)
	s.Equal(sarah.Username, complaint.UserName)
	s.Equal(domain.ComplaintStatusPending, complaint.Status)
	s.NotEmpty(complaint.ID)

	mine, err := s.complaints.ListForUser(s.ctx, sarah, Page{})
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(complaint.ID, mine[0].ID, "newest first")

	s.Require().Len(s.published, 1)
	s.Equal(events.EventComplaintCreated, s.published[0].Type)
}

func (s *ServiceSuite) TestCreateComplaint_Validation() {
	john := s.user("1")
	_, err := s.complaints.Create(s.ctx, john, ComplaintCreateInput{ProblemName: "x", WorkerType: "Plumber"})
	s.requireCode(err, "VALIDATION_FAILED")

	_, err = s.complaints.Create(s.ctx, john, ComplaintCreateInput{ProblemName: "x", WorkerType: "Wizard", Description: "y"})
	s.requireCode(err, "VALIDATION_FAILED")

	_, err = s.complaints.Create(s.ctx, s.user("6"), ComplaintCreateInput{ProblemName: "x", WorkerType: "Plumber", Description: "y"})
	s.requireCode(err, "FORBIDDEN")
}

func (s *ServiceSuite) TestCreateComplaint_WithPhoto() {
	john := s.user("1")
	complaint, err := s.complaints.Create(s.ctx, john, ComplaintCreateInput{
		ProblemName: "Leak", WorkerType: "Plumber", Description: "Drip",
		Photo: &PhotoUpload{Filename: "leak.png", ContentType: "image/png", Data: []byte("png")},
	})
	s.Require().NoError(err)
	s.Require().NotNil(complaint.PhotoKey)
	s.Equal("/api/v1/photos/"+*complaint.PhotoKey, s.complaints.PhotoURL(s.ctx, complaint))

	photo, err := s.complaints.Photo(s.ctx, *complaint.PhotoKey)
	s.Require().NoError(err)
	s.Equal([]byte("png"), photo.Data)

	_, err = s.complaints.Create(s.ctx, john, ComplaintCreateInput{
		ProblemName: "Leak", WorkerType: "Plumber", Description: "Drip",
		Photo: &PhotoUpload{Filename: "big.png", ContentType: "image/png", Data: make([]byte, 2048)},
	})
	s.requireCode(err, "VALIDATION_FAILED")

	_, err = s.complaints.Create(s.ctx, john, ComplaintCreateInput{
		ProblemName: "Leak", WorkerType: "Plumber", Description: "Drip",
		Photo: &PhotoUpload{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	})
	s.requireCode(err, "VALIDATION_FAILED")
}

func (s *ServiceSuite) TestListForResidency_ScopedAndFiltered() {
	admin := s.user("6")
	all, err := s.complaints.ListForResidency(s.ctx, admin, nil, Page{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	for _, c := range all {
		s.Equal("1", c.ResidencyID)
	}

	statuses, err := ParseStatusFilter("in progress")
	s.Require().NoError(err)
	inProgress, err := s.complaints.ListForResidency(s.ctx, admin, statuses, Page{})
	s.Require().NoError(err)
	s.Require().Len(inProgress, 1)
	s.Equal("2", inProgress[0].ID)

	none, err := ParseStatusFilter("all")
	s.Require().NoError(err)
	s.Nil(none)

	_, err = ParseStatusFilter("closed")
	s.requireCode(err, "VALIDATION_FAILED")
}

func (s *ServiceSuite) TestListForResidency_Paged() {
	admin := s.user("6")
	all, err := s.complaints.ListForResidency(s.ctx, admin, nil, Page{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)

	page, err := ParsePage("1", "1")
	s.Require().NoError(err)
	s.Equal(Page{Limit: 1, Offset: 1}, page)

	second, err := s.complaints.ListForResidency(s.ctx, admin, nil, page)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(all[1].ID, second[0].ID)

	past, err := s.complaints.ListForResidency(s.ctx, admin, nil, Page{Offset: 5})
	s.Require().NoError(err)
	s.Empty(past)

	unwindowed, err := ParsePage("", " ")
	s.Require().NoError(err)
	s.Equal(Page{}, unwindowed)

	for _, raw := range [][2]string{{"-1", ""}, {"ten", ""}, {"", "-3"}, {"101", ""}} {
		_, err := ParsePage(raw[0], raw[1])
		s.requireCode(err, "VALIDATION_FAILED")
	}
}

func (s *ServiceSuite) TestUpdateStatus_AnyToAny() {
	admin := s.user("6")
	for _, status := range []string{"Completed", "Pending", "In Progress", "In Progress"} {
		updated, err := s.complaints.UpdateStatus(s.ctx, admin, "1", status)
		s.Require().NoError(err)
		s.Equal(status, string(updated.Status))
	}

	other, err := s.repos.Complaints.GetByID(s.ctx, "2")
	s.Require().NoError(err)
	s.Equal(domain.ComplaintStatusInProgress, other.Status)
	s.Len(s.published, 4)
}

func (s *ServiceSuite) TestUpdateStatus_Guards() {
	_, err := s.complaints.UpdateStatus(s.ctx, s.user("6"), "1", "Closed")
	s.requireCode(err, "VALIDATION_FAILED")

	_, err = s.complaints.UpdateStatus(s.ctx, s.user("1"), "1", "Completed")
	s.requireCode(err, "FORBIDDEN")

	// complaint 3 belongs to residency 2
	_, err = s.complaints.UpdateStatus(s.ctx, s.user("6"), "3", "Pending")
	s.requireCode(err, "NOT_FOUND")

	_, err = s.complaints.UpdateStatus(s.ctx, s.user("6"), "missing", "Pending")
	s.requireCode(err, "NOT_FOUND")
}

func (s *ServiceSuite) TestDelete_RemovesOnlyTargetAndPhoto() {
	john := s.user("1")
	complaint, err := s.complaints.Create(s.ctx, john, ComplaintCreateInput{
		ProblemName: "Leak", WorkerType: "Plumber", Description: "Drip",
		Photo: &PhotoUpload{Filename: "leak.png", ContentType: "image/png", Data: []byte("png")},
	})
	s.Require().NoError(err)

	admin := s.user("7")
	s.Require().NoError(s.complaints.Delete(s.ctx, admin, complaint.ID))

	_, err = s.photos.Get(s.ctx, *complaint.PhotoKey)
	s.ErrorIs(err, storage.ErrPhotoNotFound)

	remaining, err := s.repos.Complaints.List(s.ctx, repository.ComplaintFilter{})
	s.Require().NoError(err)
	s.Len(remaining, 3)

	s.requireCode(s.complaints.Delete(s.ctx, admin, complaint.ID), "NOT_FOUND")
	s.requireCode(s.complaints.Delete(s.ctx, admin, "3"), "NOT_FOUND")
}

func (s *ServiceSuite) TestDashboards() {
	userView, err := s.dashboards.ForUser(s.ctx, s.user("1"))
	s.Require().NoError(err)
	s.Equal("Green Valley Apartments", userView.Residency.Name)
	s.Equal(9, userView.MemberCount)
	s.Equal(domain.ComplaintStats{Total: 1, Pending: 1}, userView.Stats)

	adminView, err := s.dashboards.ForAdmin(s.ctx, s.user("6"), []domain.ComplaintStatus{domain.ComplaintStatusCompleted})
	s.Require().NoError(err)
	s.Equal(5, adminView.UserCount)
	s.Equal(4, adminView.AdminCount)
	s.Empty(adminView.Complaints)
	s.Equal(domain.ComplaintStats{Total: 2, Pending: 1, InProgress: 1}, adminView.Stats)
}
