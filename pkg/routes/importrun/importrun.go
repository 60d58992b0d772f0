// Package importrun exposes the HTTP trigger and status endpoints for
// catalog reconciliation runs.
package importrun

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/runner"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var validate = validator.New()

// TriggerRequest is the body of a run trigger. An empty area code uses the
// configured default.
type TriggerRequest struct {
	AreaCode string `json:"area_code" validate:"omitempty,numeric"`
}

// TriggerResponse acknowledges an accepted run.
type TriggerResponse struct {
	Status   string `json:"status"`
	AreaCode string `json:"area_code"`
}

// Handler handles import run endpoints
type Handler struct {
	runner          *runner.Runner
	defaultAreaCode string
	logger          ectologger.Logger
}

// NewHandler creates a new import run handler
func NewHandler(r *runner.Runner, defaultAreaCode string, logger ectologger.Logger) *Handler {
	return &Handler{
		runner:          r,
		defaultAreaCode: defaultAreaCode,
		logger:          logger,
	}
}

// RegisterRoutes registers import run endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/imports", h.Trigger)
	e.GET("/api/v1/imports/latest", h.Latest)
}

// Trigger starts a reconciliation run in the background. Runs take minutes
// against a full catalog, so the request only acknowledges the start.
func (h *Handler) Trigger(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "importrun_handler.Trigger")
	defer span.End()

	var req TriggerRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	areaCode := req.AreaCode
	if areaCode == "" {
		areaCode = h.defaultAreaCode
	}

	// Launch holds the run slot before returning, so the 202 is only sent
	// for a run that actually started.
	if err := h.runner.Launch(areaCode); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{"area_code": areaCode}).Info("Import run accepted")
	return c.JSON(http.StatusAccepted, TriggerResponse{Status: "accepted", AreaCode: areaCode})
}

// Latest returns the summary of the most recent completed run.
func (h *Handler) Latest(c echo.Context) error {
	ctx := c.Request().Context()
	_, span := tracing.StartSpan(ctx, "importrun_handler.Latest")
	defer span.End()

	run := h.runner.LastRun()
	if run == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "no completed import run")
	}
	return c.JSON(http.StatusOK, run)
}
