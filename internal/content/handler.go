// Package content is the document-embedded context: it owns the loaded page
// and answers classification and extraction requests from the popup.
package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"job-clipper-go/internal/bus"
	"job-clipper-go/internal/dom"
	"job-clipper-go/internal/extractor"
)

// Handler serves checkJobPage and scrapeJob for one loaded document.
type Handler struct {
	registry *extractor.Registry
	doc      *dom.Document
	logger   *zap.Logger
}

// NewHandler binds the registry to a loaded document.
func NewHandler(registry *extractor.Registry, doc *dom.Document, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, doc: doc, logger: logger}
}

// Register attaches the handler as the content context on the bus.
func (h *Handler) Register(ctx context.Context, b *bus.Bus) {
	b.Register(ctx, bus.ContextContent, h.handle)
}

func (h *Handler) handle(_ context.Context, req bus.Request) (any, error) {
	switch req.Action {
	case bus.ActionCheckJobPage:
		return h.checkJobPage(), nil
	case bus.ActionScrapeJob:
		return h.scrapeJob(), nil
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
}

func (h *Handler) checkJobPage() bus.CheckJobPageResponse {
	platform, ok := h.registry.Classify(h.doc)
	if !ok {
		return bus.CheckJobPageResponse{IsJobPage: false}
	}
	return bus.CheckJobPageResponse{IsJobPage: true, Platform: platform.Name}
}

func (h *Handler) scrapeJob() bus.ScrapeJobResponse {
	platform, ok := h.registry.Classify(h.doc)
	if !ok {
		return bus.ScrapeJobResponse{Success: false, Error: "this is not a supported job page"}
	}

	rec, err := extractor.New(platform).Extract(h.doc)
	if err != nil {
		h.logger.Debug("extraction failed",
			zap.String("platform", platform.Name),
			zap.Error(err))
		return bus.ScrapeJobResponse{Success: false, Error: err.Error()}
	}

	h.logger.Info("scraped job posting",
		zap.String("platform", platform.Name),
		zap.String("position", rec.Position),
		zap.String("company", rec.Company))
	return bus.ScrapeJobResponse{Success: true, Data: &rec}
}
