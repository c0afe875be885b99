package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages resident complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// Create POST /complaints. Accepts JSON, or multipart with a "photo" part.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	user, err := requireRole(c, domain.RoleUser)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.ComplaintCreateInput{
		ProblemName: req.ProblemName,
		WorkerType:  req.WorkerType,
		Description: req.Description,
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		photo, err := h.readPhoto(c)
		if err != nil {
			return err
		}
		input.Photo = photo
	}

	complaint, err := h.complaints.Create(c.UserContext(), user, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(c.UserContext(), h.complaints, complaint)})
}

// ListMine GET /complaints?limit=&offset=.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	user, err := requireRole(c, domain.RoleUser)
	if err != nil {
		return err
	}
	page, err := service.ParsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		return err
	}
	complaints, err := h.complaints.ListForUser(c.UserContext(), user, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(c.UserContext(), h.complaints, complaints)})
}

func (h *ComplaintsHandler) readPhoto(c *fiber.Ctx) (*service.PhotoUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid photo upload", nil)
	}
	files := form.File["photo"]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	if limit := h.complaints.MaxPhotoBytes(); limit > 0 && header.Size > limit {
		return nil, apperrors.NewValidationError("Photo is too large.", map[string]any{"maxBytes": limit})
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid photo upload", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid photo upload", nil)
	}

	return &service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
