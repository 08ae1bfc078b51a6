// Package background is the privileged worker context: it receives confirmed
// jobs from the popup and writes them to the configured record store.
package background

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"job-clipper-go/internal/bus"
	"job-clipper-go/internal/storage"
)

// Handler serves saveJob requests against a Store.
type Handler struct {
	store  storage.Store
	logger *zap.Logger
}

// NewHandler wraps a store as the background context.
func NewHandler(store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register attaches the handler as the background context on the bus.
func (h *Handler) Register(ctx context.Context, b *bus.Bus) {
	b.Register(ctx, bus.ContextBackground, h.handle)
}

func (h *Handler) handle(ctx context.Context, req bus.Request) (any, error) {
	if req.Action != bus.ActionSaveJob {
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}

	var save bus.SaveJobRequest
	if err := req.Bind(&save); err != nil {
		return nil, fmt.Errorf("malformed saveJob payload: %w", err)
	}

	pageID, err := h.store.SaveJob(ctx, save.Job)
	if err != nil {
		h.logger.Warn("save failed", zap.Error(err))
		return bus.SaveJobResponse{OK: false, Error: err.Error()}, nil
	}
	return bus.SaveJobResponse{OK: true, PageID: pageID}, nil
}
