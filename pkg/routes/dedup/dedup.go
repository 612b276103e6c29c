package dedup

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/dedup"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Handler handles synchronous deduplication requests
type Handler struct {
	logger    ectologger.Logger
	processor *dedup.Processor
}

// NewHandler creates a new dedup handler
func NewHandler(logger ectologger.Logger, processor *dedup.Processor) *Handler {
	return &Handler{
		logger:    logger,
		processor: processor,
	}
}

// Register registers dedup routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/events", h.DeduplicateEvents)
	g.POST("/contacts", h.DeduplicateContacts)
}

// DeduplicateEventsRequest is the request body for event deduplication
type DeduplicateEventsRequest struct {
	Records []models.EventRecord `json:"records" validate:"required,min=1"`
}

// DeduplicateEvents deduplicates a batch of event records
func (h *Handler) DeduplicateEvents(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[DeduplicateEventsRequest](c)
	if err != nil {
		return err
	}

	result := h.processor.DeduplicateEvents(ctx, req.Records)
	return c.JSON(http.StatusOK, result)
}

// DeduplicateContactsRequest is the request body for contact deduplication
type DeduplicateContactsRequest struct {
	Records []models.ContactRecord `json:"records" validate:"required,min=1"`
}

// DeduplicateContacts deduplicates a batch of contact records
func (h *Handler) DeduplicateContacts(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[DeduplicateContactsRequest](c)
	if err != nil {
		return err
	}

	if len(req.Records) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "records are required")
	}

	result := h.processor.DeduplicateContacts(ctx, req.Records)
	return c.JSON(http.StatusOK, result)
}
