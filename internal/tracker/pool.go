package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"btt/internal/domain"
	"btt/internal/driver"
	"btt/internal/logging"
)

// Progress receives updates as cases reach a terminal status
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}

// Pool executes independent cases concurrently. Every worker opens its
// own driver session and keeps it for its whole lifetime, so a session
// never serves two cases at once; steps inside a case remain strictly
// sequential.
type Pool struct {
	factory  driver.Factory
	workers  int
	opts     Options
	progress Progress
	logger   *slog.Logger
}

// NewPool creates a pool with the given worker count
func NewPool(factory driver.Factory, workers int, opts Options) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		factory: factory,
		workers: workers,
		opts:    opts,
		logger:  logging.WithComponent("pool"),
	}
}

// SetProgress sets the progress sink for the pool
func (p *Pool) SetProgress(progress Progress) {
	p.progress = progress
}

// Execute runs all cases and returns the wall-clock duration. With
// failFast no new case starts after the first failed one. A non-nil
// error reports an interrupted run; cases that never ran stay Pending.
func (p *Pool) Execute(ctx context.Context, cases []*domain.TestCase, failFast bool) (time.Duration, error) {
	if len(cases) == 0 {
		return 0, nil
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan *domain.TestCase, len(cases))
	for _, tc := range cases {
		queue <- tc
	}
	close(queue)

	var (
		mu        sync.Mutex
		completed int
		passed    int
		failed    int
		firstErr  error
	)

	var wg sync.WaitGroup
	for i := 1; i <= p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			session, err := p.factory.NewSession(runCtx)
			if err != nil {
				p.logger.Error("worker could not open a session", "worker", workerID, "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			defer session.Close()

			tr := New(session, p.opts)
			for tc := range queue {
				// Drain without executing once the run is stopped
				if runCtx.Err() != nil {
					continue
				}

				err := tr.ExecutePass(runCtx, tc)

				mu.Lock()
				if err == nil {
					completed++
					switch tc.Status {
					case domain.CaseCompleted:
						passed++
					case domain.CaseFailed:
						failed++
					}
					if p.progress != nil {
						p.progress.Update(completed, passed, failed)
					}
				} else if firstErr == nil {
					firstErr = err
				}
				stop := failFast && tc.Status == domain.CaseFailed
				mu.Unlock()

				if err != nil {
					return
				}
				if stop {
					cancel()
				}
			}
		}(i)
	}

	wg.Wait()
	if p.progress != nil {
		p.progress.Finish()
	}

	return time.Since(start), firstErr
}
