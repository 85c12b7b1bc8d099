package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/memory"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/price-tracker/internal/scheduler"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
)

type Controller interface {
	Health(c echo.Context) error
	ListProducts(c echo.Context, req ListProductsRequest) (*models.ProductPage, error)
	SearchProducts(c echo.Context, req SearchRequest) ([]models.Product, error)
	ProductsByCategory(c echo.Context, req CategoryRequest) ([]models.Product, error)
	AvailableProducts(c echo.Context, req EmptyRequest) ([]models.Product, error)
	Categories(c echo.Context, req EmptyRequest) ([]models.CategoryInfo, error)
	Status(c echo.Context, req EmptyRequest) (*StatusResponse, error)
	Refresh(c echo.Context, req RefreshRequest) (*models.FetchResult, error)
	Changes(c echo.Context, req ChangesRequest) (*models.ChangesReport, error)
	ClearChanges(c echo.Context, req EmptyRequest) (*ClearResponse, error)
	ArchivedChanges(c echo.Context, req ArchiveRequest) (*models.ChangeLogPage, error)
	Analysis(c echo.Context, req EmptyRequest) (*models.Analysis, error)
}

type EmptyRequest struct{}

type ListProductsRequest struct {
	Page  int `query:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=500"`
}

type SearchRequest struct {
	Query    string `query:"q"`
	Category string `query:"category" validate:"omitempty,category"`
}

type CategoryRequest struct {
	Category string `param:"category" validate:"required,category"`
}

type RefreshRequest struct {
	Reason      string `json:"reason"`
	RequestedBy string `header:"x-triggered-by"`
}

type ChangesRequest struct {
	Hours int `query:"hours" validate:"omitempty,gte=1,lte=720"`
}

type ArchiveRequest struct {
	Page  int `query:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

type StatusResponse struct {
	Cache             models.CacheInfo `json:"cache"`
	HistorySize       int              `json:"history_size"`
	SchedulerInterval string           `json:"scheduler_interval"`
	Source            string           `json:"source"`
}

type ClearResponse struct {
	Cleared int `json:"cleared"`
}

type controller struct {
	conf      *config.Config
	tracker   usecase.TrackerUsecase
	catalog   usecase.CatalogUsecase
	archive   mongodb.ChangeLogRepository
	scheduler scheduler.Scheduler
}

func NewHandler(
	conf *config.Config,
	tracker usecase.TrackerUsecase,
	catalog usecase.CatalogUsecase,
	archive mongodb.ChangeLogRepository,
	scheduler scheduler.Scheduler,
) Controller {
	return &controller{
		conf:      conf,
		tracker:   tracker,
		catalog:   catalog,
		archive:   archive,
		scheduler: scheduler,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "healthy",
		"service":  "price-tracker",
		"has_data": h.tracker.CacheInfo().HasData,
	})
}

func (h *controller) ListProducts(c echo.Context, req ListProductsRequest) (*models.ProductPage, error) {
	return h.catalog.ListProducts(c.Request().Context(), req.Page, req.Limit)
}

func (h *controller) SearchProducts(c echo.Context, req SearchRequest) ([]models.Product, error) {
	return h.catalog.Search(c.Request().Context(), req.Query, req.Category)
}

func (h *controller) ProductsByCategory(c echo.Context, req CategoryRequest) ([]models.Product, error) {
	return h.catalog.ByCategory(c.Request().Context(), req.Category)
}

func (h *controller) AvailableProducts(c echo.Context, _ EmptyRequest) ([]models.Product, error) {
	return h.catalog.Available(c.Request().Context())
}

func (h *controller) Categories(c echo.Context, _ EmptyRequest) ([]models.CategoryInfo, error) {
	return h.catalog.Categories(c.Request().Context())
}

func (h *controller) Status(c echo.Context, _ EmptyRequest) (*StatusResponse, error) {
	return &StatusResponse{
		Cache:             h.tracker.CacheInfo(),
		HistorySize:       h.tracker.HistorySize(),
		SchedulerInterval: h.scheduler.Interval().String(),
		Source:            h.conf.Source.URL,
	}, nil
}

func (h *controller) Refresh(c echo.Context, req RefreshRequest) (*models.FetchResult, error) {
	ctx := c.Request().Context()
	logger.AddFields(ctx, "trigger", "http")
	log.Infow(ctx, "manual refresh requested", "reason", req.Reason, "requested_by", req.RequestedBy)

	res, err := h.tracker.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if res != nil && res.ChangeLog != nil {
		logger.AddFields(ctx, "change_log_id", res.ChangeLog.ID)
	}
	return res, nil
}

func (h *controller) Changes(c echo.Context, req ChangesRequest) (*models.ChangesReport, error) {
	window := h.conf.History.RecentWindow
	if req.Hours > 0 {
		window = time.Duration(req.Hours) * time.Hour
	}

	recent := h.tracker.RecentChanges(window)
	report := &models.ChangesReport{
		WindowHours: int(window / time.Hour),
		Recent:      recent,
		Significant: memory.Significant(recent),
		HistorySize: h.tracker.HistorySize(),
	}
	for _, l := range recent {
		report.Summary = report.Summary.Add(l.Summary)
	}
	return report, nil
}

func (h *controller) ClearChanges(c echo.Context, _ EmptyRequest) (*ClearResponse, error) {
	cleared := h.tracker.HistorySize()
	h.tracker.ClearHistory()
	log.Infow(c.Request().Context(), "change history cleared", "cleared", cleared)
	return &ClearResponse{Cleared: cleared}, nil
}

func (h *controller) ArchivedChanges(c echo.Context, req ArchiveRequest) (*models.ChangeLogPage, error) {
	return h.archive.List(c.Request().Context(), req.Page, req.Limit)
}

func (h *controller) Analysis(c echo.Context, _ EmptyRequest) (*models.Analysis, error) {
	return h.catalog.Analysis(c.Request().Context())
}
