// Package unit exposes read endpoints over the imported units.
package unit

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	servicerepo "github.com/Ramsey-B/fern/internal/repositories/service"
	unitrepo "github.com/Ramsey-B/fern/internal/repositories/unit"
	"github.com/Ramsey-B/fern/internal/repositories/unitconnection"
	"github.com/Ramsey-B/fern/internal/repositories/unitidentifier"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ListResponse is a page of units.
type ListResponse struct {
	Items      []*models.Unit `json:"items"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// DetailResponse is a unit with its catalog binding and contact connections.
type DetailResponse struct {
	Unit        *models.Unit             `json:"unit"`
	PTVID       *uuid.UUID               `json:"ptv_id,omitempty"`
	Connections []*models.UnitConnection `json:"connections"`
}

// Handler handles unit endpoints
type Handler struct {
	units       *unitrepo.Repository
	services    *servicerepo.Repository
	connections *unitconnection.Repository
	identifiers *unitidentifier.Repository
	logger      ectologger.Logger
}

// NewHandler creates a new unit handler
func NewHandler(units *unitrepo.Repository, services *servicerepo.Repository, connections *unitconnection.Repository, identifiers *unitidentifier.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		units:       units,
		services:    services,
		connections: connections,
		identifiers: identifiers,
		logger:      logger,
	}
}

// RegisterRoutes registers unit endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/units", h.List)
	e.GET("/api/v1/units/:id", h.Get)
	e.GET("/api/v1/units/:id/services", h.Services)
}

// List returns a page of units
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "unit_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, totalCount, err := h.units.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Get returns a unit with its connections and catalog binding
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "unit_handler.Get")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "unit id must be an integer")
	}

	unit, err := h.units.Get(ctx, id)
	if err != nil {
		return err
	}

	connections, err := h.connections.ListByUnit(ctx, id)
	if err != nil {
		return err
	}

	resp := DetailResponse{Unit: unit, Connections: connections}
	identifier, err := h.identifiers.GetByUnit(ctx, id)
	if err != nil {
		return err
	}
	if identifier != nil {
		resp.PTVID = &identifier.ID
	}

	return c.JSON(http.StatusOK, resp)
}

// Services returns the services offered at a unit
func (h *Handler) Services(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "unit_handler.Services")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "unit id must be an integer")
	}

	// 404 for unknown units rather than an empty list.
	if _, err := h.units.Get(ctx, id); err != nil {
		return err
	}

	services, err := h.services.ListByUnit(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}
