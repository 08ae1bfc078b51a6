// Package ui renders orchestrator events for the terminal. The renderer is
// a pure subscriber: everything it prints is derived from the event payload
// it just received, and it holds no business state.
package ui

import (
	"fmt"
	"io"

	"job-clipper-go/internal/orchestrator"
)

// Renderer prints status lines and the scraped-job card.
type Renderer struct {
	out io.Writer
}

// NewRenderer writes to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Handle renders one orchestrator event.
func (r *Renderer) Handle(ev orchestrator.Event) {
	switch ev.Kind {
	case orchestrator.EventScrapeStart:
		fmt.Fprintln(r.out, "Scraping...")
	case orchestrator.EventScrapeSuccess:
		fmt.Fprintf(r.out, "  Company:  %s\n", orDash(ev.Company))
		fmt.Fprintf(r.out, "  Position: %s\n", orDash(ev.Position))
		fmt.Fprintf(r.out, "  Location: %s\n", orDash(ev.Location))
		fmt.Fprintln(r.out, "Scrape successful.")
	case orchestrator.EventScrapeError:
		fmt.Fprintf(r.out, "Scrape failed: %s\n", ev.Message)
	case orchestrator.EventSaveStart:
		fmt.Fprintln(r.out, "Saving...")
	case orchestrator.EventSaveSuccess:
		if ev.PageID != "" {
			fmt.Fprintf(r.out, "Saved (record %s).\n", ev.PageID)
		} else {
			fmt.Fprintln(r.out, "Saved.")
		}
	case orchestrator.EventSaveError:
		fmt.Fprintf(r.out, "Save failed: %s\n", ev.Message)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
