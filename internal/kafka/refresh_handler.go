package kafka

import (
	"context"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/internal/usecase"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
)

// refreshHandler adapts the tracker usecase to the MessageHandler interface
type refreshHandler struct {
	tracker usecase.TrackerUsecase
}

func NewRefreshHandler(tracker usecase.TrackerUsecase) MessageHandler {
	return &refreshHandler{
		tracker: tracker,
	}
}

func (h *refreshHandler) HandleMessage(ctx context.Context, req *models.RefreshRequest) error {
	res, err := h.tracker.Refresh(ctx)
	if err != nil {
		return err
	}
	log.Infow(ctx, "Refresh triggered",
		"requested_by", req.RequestedBy,
		"updated", res.Updated,
		"stale", res.Stale,
		"products", len(res.Products),
	)
	return nil
}
