package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/service"
)

// PhotosHandler serves photos kept by the in-memory photo store.
type PhotosHandler struct {
	complaints *service.ComplaintService
}

// NewPhotosHandler constructs handler.
func NewPhotosHandler(complaintService *service.ComplaintService) *PhotosHandler {
	return &PhotosHandler{complaints: complaintService}
}

// Get GET /photos/:key.
func (h *PhotosHandler) Get(c *fiber.Ctx) error {
	photo, err := h.complaints.Photo(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, photo.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Send(photo.Data)
}
