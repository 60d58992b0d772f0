// Package service exposes read endpoints over the imported services.
package service

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	servicerepo "github.com/Ramsey-B/fern/internal/repositories/service"
	"github.com/Ramsey-B/fern/internal/repositories/servicenode"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ListResponse is a page of services.
type ListResponse struct {
	Items      []*models.Service `json:"items"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// DetailResponse is a service with its taxonomy nodes.
type DetailResponse struct {
	Service *models.Service       `json:"service"`
	Nodes   []*models.ServiceNode `json:"nodes"`
}

// Handler handles service endpoints
type Handler struct {
	services *servicerepo.Repository
	nodes    *servicenode.Repository
	logger   ectologger.Logger
}

// NewHandler creates a new service handler
func NewHandler(services *servicerepo.Repository, nodes *servicenode.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		services: services,
		nodes:    nodes,
		logger:   logger,
	}
}

// RegisterRoutes registers service endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/services", h.List)
	e.GET("/api/v1/services/:id", h.Get)
}

// List returns a page of services
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "service_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, totalCount, err := h.services.List(ctx, page, pageSize)
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

// Get returns a service with its taxonomy nodes
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "service_handler.Get")
	defer span.End()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "service id must be an integer")
	}

	service, err := h.services.Get(ctx, id)
	if err != nil {
		return err
	}

	nodes, err := h.nodes.ListByService(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DetailResponse{Service: service, Nodes: nodes})
}
