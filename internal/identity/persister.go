package identity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Persister is a fire-and-forget sink in front of a Store. Submit never
// blocks the caller; a background loop saves the most recent identity,
// throttled by a rate limiter. Intermediate values may be skipped.
type Persister struct {
	store   Store
	logger  *zap.Logger
	limiter *rate.Limiter
	timeout time.Duration

	mu      sync.Mutex
	pending *Identity
	wake    chan struct{}
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithSaveRate limits background saves to every interval with the given burst.
func WithSaveRate(interval time.Duration, burst int) PersisterOption {
	return func(p *Persister) {
		if burst < 1 {
			burst = 1
		}
		limit := rate.Inf
		if interval > 0 {
			limit = rate.Every(interval)
		}
		p.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithSaveTimeout bounds each Save call.
func WithSaveTimeout(timeout time.Duration) PersisterOption {
	return func(p *Persister) {
		p.timeout = timeout
	}
}

// NewPersister creates a persister for store.
func NewPersister(store Store, logger *zap.Logger, opts ...PersisterOption) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Persister{
		store:   store,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		timeout: 5 * time.Second,
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit queues id for saving, replacing any value not yet saved.
func (p *Persister) Submit(id Identity) {
	cp := id.Clone()
	p.mu.Lock()
	p.pending = &cp
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run saves submitted identities until ctx is done.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
		p.savePending(ctx)
	}
}

// Flush saves any pending identity immediately, ignoring the rate limit.
func (p *Persister) Flush(ctx context.Context) {
	p.savePending(ctx)
}

func (p *Persister) savePending(ctx context.Context) {
	p.mu.Lock()
	id := p.pending
	p.pending = nil
	p.mu.Unlock()

	if id == nil {
		return
	}

	saveCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.store.Save(saveCtx, *id); err != nil {
		p.logger.Error("failed to save identity", zap.Error(err))
		return
	}

	p.logger.Debug("saved identity",
		zap.Int("players", len(id.Players)),
		zap.Int("starting_life", id.StartingLife),
	)
}
