package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/repository"
	"github.com/fixithub/complaint-service/internal/storage"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints    repository.ComplaintRepository
	photos        storage.PhotoStore
	dispatcher    events.Dispatcher
	maxPhotoBytes int64
	logger        *zap.Logger
	now           func() time.Time
}

// ComplaintDependencies bundles requirements for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Photos        storage.PhotoStore
	Dispatcher    events.Dispatcher
	MaxPhotoBytes int64
	Logger        *zap.Logger
}

// PhotoUpload is an image attached to a new complaint.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	ProblemName string
	WorkerType  string
	Description string
	Photo       *PhotoUpload
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints:    deps.ComplaintRepo,
		photos:        deps.Photos,
		dispatcher:    deps.Dispatcher,
		maxPhotoBytes: deps.MaxPhotoBytes,
		logger:        logger,
		now:           time.Now,
	}
}

// ParseStatusFilter turns a status query value into a filter. Empty and
// "all" select every status.
func ParseStatusFilter(raw string) ([]domain.ComplaintStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	status, ok := domain.ParseComplaintStatus(raw)
	if !ok {
		return nil, invalidStatus(raw)
	}
	return []domain.ComplaintStatus{status}, nil
}

// Page windows a complaint listing. A zero Limit returns every complaint
// after Offset.
type Page struct {
	Limit  int
	Offset int
}

// MaxPageLimit caps the limit a client may request.
const MaxPageLimit = 100

// ParsePage reads the limit and offset query values. Empty values leave the
// listing unwindowed.
func ParsePage(rawLimit, rawOffset string) (Page, error) {
	var page Page
	var err error
	if page.Limit, err = parsePageValue("limit", rawLimit); err != nil {
		return Page{}, err
	}
	if page.Limit > MaxPageLimit {
		return Page{}, apperrors.NewValidationError("Invalid limit.", map[string]any{"limit": rawLimit, "max": MaxPageLimit})
	}
	if page.Offset, err = parsePageValue("offset", rawOffset); err != nil {
		return Page{}, err
	}
	return page, nil
}

func parsePageValue(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperrors.NewValidationError("Invalid "+name+".", map[string]any{name: raw})
	}
	return value, nil
}

// Create raises a complaint on behalf of a resident. The complaint inherits
// the resident's residency and name.
func (s *ComplaintService) Create(ctx context.Context, user *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	if user.Role != domain.RoleUser {
		return nil, apperrors.NewForbidden("only residents can raise complaints")
	}
	input.ProblemName = strings.TrimSpace(input.ProblemName)
	input.WorkerType = strings.TrimSpace(input.WorkerType)
	input.Description = strings.TrimSpace(input.Description)
	if input.ProblemName == "" || input.WorkerType == "" || input.Description == "" {
		return nil, apperrors.NewValidationError(msgRequiredFields, nil)
	}
	if !domain.IsWorkerType(input.WorkerType) {
		return nil, apperrors.NewValidationError("Unknown worker type.",
			map[string]any{"workerType": input.WorkerType, "allowed": domain.WorkerTypes})
	}

	complaint := &domain.Complaint{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ResidencyID: user.ResidencyID,
		ProblemName: input.ProblemName,
		WorkerType:  input.WorkerType,
		Description: input.Description,
		Status:      domain.ComplaintStatusPending,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
		UserName:    user.Username,
	}

	if input.Photo != nil {
		key, err := s.storePhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		complaint.PhotoKey = &key
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		if complaint.PhotoKey != nil {
			s.removePhoto(ctx, *complaint.PhotoKey)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ResidencyID: complaint.ResidencyID,
		SubjectID:   complaint.ID,
		Actor:       events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.ComplaintCreatedPayload{
			ProblemName: complaint.ProblemName,
			WorkerType:  complaint.WorkerType,
			HasPhoto:    complaint.PhotoKey != nil,
		},
	})
	return complaint, nil
}

// ListForUser returns the caller's own complaints, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, user *domain.User, page Page) ([]domain.Complaint, error) {
	return s.complaints.List(ctx, repository.ComplaintFilter{
		UserID: &user.ID,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// ListForResidency returns the complaints of the caller's residency, newest
// first, optionally narrowed to the given statuses and windowed by page.
func (s *ComplaintService) ListForResidency(ctx context.Context, caller *domain.User, statuses []domain.ComplaintStatus, page Page) ([]domain.Complaint, error) {
	return s.complaints.List(ctx, repository.ComplaintFilter{
		ResidencyID: &caller.ResidencyID,
		Statuses:    statuses,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
}

// UpdateStatus sets the status of a complaint in the admin's residency. Any
// status may follow any other.
func (s *ComplaintService) UpdateStatus(ctx context.Context, admin *domain.User, id string, rawStatus string) (*domain.Complaint, error) {
	status, ok := domain.ParseComplaintStatus(rawStatus)
	if !ok {
		return nil, invalidStatus(rawStatus)
	}
	complaint, err := s.loadForAdmin(ctx, admin, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if err := s.complaints.UpdateStatus(ctx, complaint.ID, status); err != nil {
		return nil, notFoundOr(err, id)
	}
	complaint.Status = status

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ResidencyID: complaint.ResidencyID,
		SubjectID:   complaint.ID,
		Actor:       events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload:     events.ComplaintStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return complaint, nil
}

// Delete removes a complaint in the admin's residency. A stored photo is
// removed as well; failing to do so does not fail the delete.
func (s *ComplaintService) Delete(ctx context.Context, admin *domain.User, id string) error {
	complaint, err := s.loadForAdmin(ctx, admin, id)
	if err != nil {
		return err
	}
	if err := s.complaints.Delete(ctx, complaint.ID); err != nil {
		return notFoundOr(err, id)
	}
	if complaint.PhotoKey != nil {
		s.removePhoto(ctx, *complaint.PhotoKey)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ResidencyID: complaint.ResidencyID,
		SubjectID:   complaint.ID,
		Actor:       events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload:     events.ComplaintDeletedPayload{ProblemName: complaint.ProblemName},
	})
	return nil
}

// PhotoURL resolves the public URL of a complaint photo, or "" when the
// complaint has none.
func (s *ComplaintService) PhotoURL(ctx context.Context, complaint *domain.Complaint) string {
	if complaint.PhotoKey == nil || s.photos == nil {
		return ""
	}
	url, err := s.photos.URL(ctx, *complaint.PhotoKey)
	if err != nil {
		s.logger.Warn("photo url failed", zap.String("complaint_id", complaint.ID), zap.Error(err))
		return ""
	}
	return url
}

// Photo loads a stored photo.
func (s *ComplaintService) Photo(ctx context.Context, key string) (*storage.Photo, error) {
	if s.photos == nil {
		return nil, apperrors.NewNotFound("photo", map[string]any{"key": key})
	}
	photo, err := s.photos.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return nil, apperrors.NewNotFound("photo", map[string]any{"key": key})
		}
		return nil, err
	}
	return photo, nil
}

// MaxPhotoBytes is the upload size limit.
func (s *ComplaintService) MaxPhotoBytes() int64 {
	return s.maxPhotoBytes
}

// loadForAdmin hides complaints of other residencies behind NOT_FOUND.
func (s *ComplaintService) loadForAdmin(ctx context.Context, admin *domain.User, id string) (*domain.Complaint, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	if complaint.ResidencyID != admin.ResidencyID {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	return complaint, nil
}

func (s *ComplaintService) storePhoto(ctx context.Context, upload *PhotoUpload) (string, error) {
	if s.photos == nil {
		return "", apperrors.NewValidationError("Photo uploads are disabled.", nil)
	}
	if err := storage.ValidatePhoto(int64(len(upload.Data)), upload.ContentType, s.maxPhotoBytes); err != nil {
		switch {
		case errors.Is(err, storage.ErrPhotoTooLarge):
			return "", apperrors.NewValidationError("Photo is too large.",
				map[string]any{"maxBytes": s.maxPhotoBytes})
		default:
			return "", apperrors.NewValidationError("Photo must be an image file.", nil)
		}
	}
	key := storage.NewPhotoKey(upload.Filename)
	if err := s.photos.Put(ctx, storage.Photo{Key: key, ContentType: upload.ContentType, Data: upload.Data}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ComplaintService) removePhoto(ctx context.Context, key string) {
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.Warn("photo removal failed", zap.String("photo_key", key), zap.Error(err))
	}
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func invalidStatus(raw string) error {
	statuses := make([]string, 0, len(domain.ComplaintStatuses))
	for _, status := range domain.ComplaintStatuses {
		statuses = append(statuses, string(status))
	}
	return apperrors.NewValidationError("Status must be one of "+strings.Join(statuses, ", ")+".",
		map[string]any{"status": raw})
}

func notFoundOr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	return err
}
