package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"farmhelp/pkg/refresh/service"
)

const jobTimeout = 5 * time.Minute

// Scheduler refreshes a fixed commodity list from the external feed on a
// cron schedule. Runs never overlap.
type Scheduler struct {
	cron        *cron.Cron
	svc         service.RefreshService
	commodities []string
}

func New(svc service.RefreshService, commodities []string) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.New(log.Writer(), "[cron] ", log.LstdFlags))
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		svc:         svc,
		commodities: commodities,
	}
}

// Start registers the refresh job and starts the cron loop. An empty expression
// leaves the scheduler disabled.
func (s *Scheduler) Start(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		log.Printf("[cron] refresh schedule disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", expr, err)
	}
	s.cron.Start()
	log.Printf("[cron] refresh scheduled %q for %v", expr, s.commodities)
	return nil
}

// RunOnce refreshes every configured commodity across all states.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]service.RefreshResult {
	out := make(map[string]service.RefreshResult, len(s.commodities))
	for _, c := range s.commodities {
		if ctx.Err() != nil {
			break
		}
		res, err := s.svc.Refresh(ctx, c, "")
		if err != nil {
			log.Printf("[cron] %s: %v", c, err)
			continue
		}
		log.Printf("[cron] %s: %s (%s)", c, res.Message, res.Source)
		out[c] = res
	}
	return out
}

// Stop halts the loop; the returned context is done once a running job ends.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }
