package gaps

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/gaps"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Handler handles timeline gap analysis requests
type Handler struct {
	logger ectologger.Logger
	config gaps.Config
}

// NewHandler creates a new gap analysis handler. The config provides defaults
// that individual requests may override.
func NewHandler(logger ectologger.Logger, config gaps.Config) *Handler {
	return &Handler{
		logger: logger,
		config: config,
	}
}

// Register registers gap analysis routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/events", h.AnalyzeEvents)
}

// AnalyzeEventsRequest is the request body for event gap analysis
type AnalyzeEventsRequest struct {
	Records []models.EventRecord `json:"records" validate:"required,min=1"`

	// Optional per-request overrides of the configured defaults
	GapThresholdHours  *float64 `json:"gap_threshold_hours,omitempty" validate:"omitempty,gt=0"`
	ExpectedFrequency  *string  `json:"expected_frequency,omitempty" validate:"omitempty,oneof=high medium low"`
	AnalysisPeriodDays *int     `json:"analysis_period_days,omitempty" validate:"omitempty,gt=0"`
}

// AnalyzeEvents reports likely missing-data gaps in an event timeline
func (h *Handler) AnalyzeEvents(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[AnalyzeEventsRequest](c)
	if err != nil {
		return err
	}

	config := h.config
	if req.GapThresholdHours != nil {
		config.GapThresholdHours = *req.GapThresholdHours
	}
	if req.ExpectedFrequency != nil {
		tier := models.FrequencyTier(*req.ExpectedFrequency)
		if tier != models.FrequencyHigh && tier != models.FrequencyMedium && tier != models.FrequencyLow {
			return httperror.NewHTTPError(http.StatusBadRequest, "expected_frequency must be high, medium, or low")
		}
		config.ExpectedFrequency = tier
	}
	if req.AnalysisPeriodDays != nil {
		config.AnalysisPeriodDays = *req.AnalysisPeriodDays
	}

	analyzer := gaps.NewAnalyzer(config, h.logger)
	return c.JSON(http.StatusOK, analyzer.Analyze(ctx, req.Records))
}
