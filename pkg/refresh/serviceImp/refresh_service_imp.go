package serviceImp

import (
	"context"
	"fmt"
	"log"

	"farmhelp/entities"
	"farmhelp/pkg/importer"
	"farmhelp/pkg/refresh/service"
)

const (
	fetchLimit   = 500
	localMessage = "API not available; using local data"
)

type refreshSvc struct {
	feed service.Fetcher
	im   *importer.Importer
}

func NewRefreshService(feed service.Fetcher, im *importer.Importer) service.RefreshService {
	return &refreshSvc{feed: feed, im: im}
}

func (s *refreshSvc) Refresh(ctx context.Context, commodity, state string) (service.RefreshResult, error) {
	local := service.RefreshResult{Source: service.SourceLocal, Message: localMessage}
	if s.feed == nil || !s.feed.Configured() {
		return local, nil
	}
	recs, err := s.feed.Fetch(ctx, commodity, state, fetchLimit)
	if err != nil {
		log.Printf("[refresh] %s/%s fetch failed: %v", commodity, state, err)
		return local, nil
	}

	res, err := s.im.Import(ctx, entities.SourceDataGov, importer.FromObservations(recs))
	if err != nil {
		return service.RefreshResult{}, fmt.Errorf("refresh store: %w", err)
	}
	log.Printf("[refresh] %s/%s fetched=%d inserted=%d skipped=%d", commodity, state, len(recs), res.Inserted, res.Skipped)
	return service.RefreshResult{
		Source:    service.SourceExternal,
		Refreshed: res.Inserted,
		Skipped:   res.Skipped,
		Rejected:  res.Rejected,
		BatchID:   res.BatchID,
		Message:   fmt.Sprintf("Inserted %d new records, skipped %d duplicates", res.Inserted, res.Skipped),
	}, nil
}
