package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/walletscope/walletscope-go/pkg/analytics"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("worker closed")

// Worker executes requests one at a time on its own goroutine so large fill
// histories never block the caller. Callers are responsible for not
// overlapping two computations for the same wallet; the worker only
// guarantees serialized execution and one response per request.
type Worker struct {
	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

type job struct {
	req   Request
	reply chan Response
}

// New starts a worker.
func New(log zerolog.Logger) *Worker {
	w := &Worker{
		jobs: make(chan job),
		done: make(chan struct{}),
		log:  log.With().Str("component", "worker").Logger(),
	}
	go w.run()
	return w
}

// Submit dispatches a request and blocks until its single response arrives,
// the context ends, or the worker is closed.
func (w *Worker) Submit(ctx context.Context, req Request) (Response, error) {
	select {
	case <-w.done:
		return Response{}, ErrClosed
	default:
	}

	j := job{req: req, reply: make(chan Response, 1)}
	select {
	case w.jobs <- j:
	case <-w.done:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	select {
	case resp := <-j.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close stops the worker. In-flight work finishes; queued Submits fail with
// ErrClosed.
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *Worker) run() {
	for {
		select {
		case <-w.done:
			return
		case j := <-w.jobs:
			started := time.Now()
			resp := w.Handle(j.req)
			if resp.Status == StatusError {
				w.log.Warn().Str("type", j.req.Type).Str("message", resp.Message).Msg("request failed")
			} else {
				w.log.Debug().Str("type", j.req.Type).Dur("took", time.Since(started)).Msg("request served")
			}
			j.reply <- resp
		}
	}
}

// Handle executes one request synchronously. Unexpected runtime faults are
// recovered at this boundary and converted into error responses so a bad
// batch can never crash the host.
func (w *Worker) Handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Status: StatusError, Message: fmt.Sprintf("analysis panicked: %v", r)}
		}
	}()

	switch req.Type {
	case TypePing:
		return Response{Type: TypePong}

	case TypeAnalyze:
		// The sanitize gate runs here because the worker is an entry point:
		// nothing malformed may reach the P&L engine's arithmetic.
		valid, dropped := analytics.SanitizeTrades(req.Trades, time.Now())
		if dropped > 0 {
			w.log.Info().Int("dropped", dropped).Int("accepted", len(valid)).Msg("malformed fills dropped")
		}
		analysis := analytics.Analyze(valid, req.Resolutions)
		return Response{
			Status: StatusSuccess,
			Result: &Result{TradeAnalysis: analysis, Badges: analytics.AssignBadges(analysis)},
		}

	default:
		return Response{Status: StatusError, Message: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}
