package engine

import (
	"context"
	"sync"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/genricoloni/ampresence/internal/resolver"
	"github.com/genricoloni/ampresence/internal/tracker"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ReconcilerState is what the loop remembers between ticks.
// It is owned by the loop goroutine and never shared.
type ReconcilerState struct {
	// PreviousTitle is the last raw now-playing string that was pushed
	PreviousTitle string
	// Cleared is true while the presence display shows nothing
	Cleared bool
	Timing  domain.PlaybackTiming
}

// Engine mirrors the player state to the presence display.
// On each tick it reads the player status, pushes an update when the track
// changes and clears the display when playback pauses or stops.
type Engine struct {
	logger   *zap.Logger
	cfg      domain.Config
	player   domain.Player
	presence domain.Presence
	tracker  *tracker.Tracker
	resolver *resolver.Resolver
	clock    clockwork.Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new reconciliation engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	player domain.Player,
	presence domain.Presence,
	trk *tracker.Tracker,
	res *resolver.Resolver,
	clock clockwork.Clock,
) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		logger:   logger,
		cfg:      cfg,
		player:   player,
		presence: presence,
		tracker:  trk,
		resolver: res,
		clock:    clock,
	}
}

// Start launches the polling loop in a goroutine.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return nil
	}

	// The fx start context expires once startup completes, so the loop gets its own
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.done = make(chan struct{})

	e.logger.Info("Engine starting...",
		zap.Duration("interval", e.cfg.GetPollInterval()),
		zap.String("player", e.player.Name()))

	go e.runLoop(loopCtx, e.done)
	return nil
}

// runLoop ticks at the configured interval until the context is cancelled
func (e *Engine) runLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := e.clock.NewTicker(e.cfg.GetPollInterval())
	defer ticker.Stop()

	var state ReconcilerState
	for {
		e.Tick(ctx, &state)

		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return
		case <-ticker.Chan():
		}
	}
}

// Tick runs one reconciliation step against state.
//
// A pause always clears, while a stop only clears once until playback resumes.
// Collaborator errors are logged and leave state untouched, so the next tick
// retries with a fresh read.
func (e *Engine) Tick(ctx context.Context, state *ReconcilerState) {
	status, err := e.player.PlayingStatus(ctx)
	if err != nil {
		e.logger.Warn("Failed to read player status", zap.Error(err))
		return
	}

	switch {
	case status == domain.StatusPaused || (status == domain.StatusStopped && !state.Cleared):
		e.clear(ctx, state, status)
	case status == domain.StatusPlaying:
		e.update(ctx, state)
	}
}

// clear removes the presence and resets the remembered track
func (e *Engine) clear(ctx context.Context, state *ReconcilerState, status domain.PlayerStatus) {
	if err := e.presence.Clear(ctx); err != nil {
		e.logger.Warn("Failed to clear presence", zap.Error(err))
		return
	}

	if !state.Cleared {
		e.logger.Info("Playback halted, presence cleared", zap.String("status", string(status)))
	}

	state.PreviousTitle = ""
	state.Timing = domain.PlaybackTiming{}
	state.Cleared = true
}

// update pushes the current track when it differs from the last one pushed
func (e *Engine) update(ctx context.Context, state *ReconcilerState) {
	raw, err := e.player.NowPlayingTitle(ctx)
	if err != nil {
		e.logger.Warn("Failed to read now playing title", zap.Error(err))
		return
	}

	change, changed, err := e.tracker.DetectAndParse(ctx, raw, state.PreviousTitle)
	if err != nil {
		e.logger.Warn("Failed to read track state", zap.Error(err))
		return
	}
	if !changed {
		return
	}

	large := e.resolver.Resolve(ctx, change.Position, change.Track.Artist)
	small := e.cfg.GetSmallAsset()

	activity := domain.Activity{
		Details:    change.Track.Title,
		State:      "by " + change.Track.Artist,
		Start:      change.Timing.StartUnix(),
		LargeImage: large.Key,
		LargeText:  large.Text,
		SmallImage: small.Key,
		SmallText:  small.Text,
	}

	if err := e.presence.Update(ctx, activity); err != nil {
		e.logger.Warn("Failed to update presence",
			zap.String("track", change.Track.Title),
			zap.Error(err))
		return
	}

	state.PreviousTitle = raw
	state.Timing = change.Timing
	state.Cleared = false

	e.logger.Info("Presence updated",
		zap.String("track", change.Track.Title),
		zap.String("artist", change.Track.Artist),
		zap.String("asset", large.Key),
		zap.Time("start", change.Timing.StartTime()))
}

// Stop cancels the polling loop and waits for it to exit
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel = nil
	e.mu.Unlock()

	if cancel == nil {
		return nil
	}

	e.logger.Info("Engine stopping...")
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
