package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/genricoloni/ampresence/internal/domain/mocks"
	"github.com/genricoloni/ampresence/internal/resolver"
	"github.com/genricoloni/ampresence/internal/tracker"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// stubConfig is a fixed domain.Config with custom assets disabled
type stubConfig struct{}

func (stubConfig) GetClientID() string                      { return "test" }
func (stubConfig) GetPollInterval() time.Duration           { return time.Second }
func (stubConfig) GetDefaultLargeKey() string               { return "logo" }
func (stubConfig) GetDefaultLargeText() domain.DefaultText  { return domain.ShowVersion() }
func (stubConfig) CustomAssetsEnabled() bool                { return false }
func (stubConfig) GetAlbumOverrides() domain.AlbumOverrides { return domain.AlbumOverrides{} }
func (stubConfig) GetPlayerSettings() domain.PlayerSettings { return domain.PlayerSettings{} }
func (stubConfig) GetSmallAsset() domain.AssetDescriptor {
	return domain.AssetDescriptor{Key: "playbutton", Text: "Playing"}
}

var testNow = time.Unix(1700000000, 0)

type testEngine struct {
	engine   *Engine
	player   *mocks.MockPlayer
	presence *mocks.MockPresence
	clock    clockwork.FakeClock
}

func newTestEngine(t *testing.T) *testEngine {
	ctrl := gomock.NewController(t)
	player := mocks.NewMockPlayer(ctrl)
	presence := mocks.NewMockPresence(ctrl)
	clock := clockwork.NewFakeClockAt(testNow)

	player.EXPECT().Name().Return("Winamp").AnyTimes()
	player.EXPECT().Version().Return("5.666").AnyTimes()

	logger := zap.NewNop()
	cfg := stubConfig{}
	trk := tracker.NewTracker(logger, player, clock)
	res := resolver.NewResolver(logger, cfg, player, nil)

	return &testEngine{
		engine:   NewEngine(logger, cfg, player, presence, trk, res, clock),
		player:   player,
		presence: presence,
		clock:    clock,
	}
}

func TestTick_TrackChangePushesUpdate(t *testing.T) {
	te := newTestEngine(t)
	raw := "3. Artist Name - Song - Song2 - Winamp"

	te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil)
	te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil)
	te.player.EXPECT().PlaylistPosition(gomock.Any()).Return(2, nil)
	te.player.EXPECT().PlaybackOffsetMillis(gomock.Any()).Return(42500, nil)

	var pushed domain.Activity
	te.presence.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a domain.Activity) error {
			pushed = a
			return nil
		})

	state := ReconcilerState{Cleared: true}
	te.engine.Tick(context.Background(), &state)

	expected := domain.Activity{
		Details:    "Song - Song2",
		State:      "by Artist Name",
		Start:      1699999957,
		LargeImage: "logo",
		LargeText:  "Winamp v5.666",
		SmallImage: "playbutton",
		SmallText:  "Playing",
	}
	if diff := cmp.Diff(expected, pushed); diff != "" {
		t.Errorf("Activity mismatch (-want +got):\n%s", diff)
	}

	if state.PreviousTitle != raw {
		t.Errorf("PreviousTitle: expected %q, got %q", raw, state.PreviousTitle)
	}
	if state.Cleared {
		t.Error("Cleared should be false after an update")
	}
	if state.Timing.Offset != 42.5 {
		t.Errorf("Timing.Offset: expected 42.5, got %v", state.Timing.Offset)
	}
}

func TestTick_SameTrackIsNoOp(t *testing.T) {
	te := newTestEngine(t)
	raw := "1. Queen - Bohemian Rhapsody - Winamp"

	te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil).Times(3)
	te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil).Times(3)
	// No position, offset or presence calls expected

	state := ReconcilerState{PreviousTitle: raw, Timing: domain.PlaybackTiming{Offset: 10, Start: 1699999990}}
	before := state

	for i := 0; i < 3; i++ {
		te.clock.Advance(time.Second)
		te.engine.Tick(context.Background(), &state)
	}

	if diff := cmp.Diff(before, state); diff != "" {
		t.Errorf("state changed on no-op ticks (-want +got):\n%s", diff)
	}
}

func TestTick_StoppedClearsOnce(t *testing.T) {
	te := newTestEngine(t)
	raw := "1. Queen - Bohemian Rhapsody - Winamp"

	te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusStopped, nil).Times(4)
	te.presence.EXPECT().Clear(gomock.Any()).Return(nil).Times(1)

	state := ReconcilerState{PreviousTitle: raw, Timing: domain.PlaybackTiming{Offset: 10, Start: 1699999990}}
	for i := 0; i < 4; i++ {
		te.engine.Tick(context.Background(), &state)
	}

	if diff := cmp.Diff(ReconcilerState{Cleared: true}, state); diff != "" {
		t.Errorf("state mismatch after stop (-want +got):\n%s", diff)
	}
}

// TestTick_PausedClearsEveryTick pins the asymmetric clear condition:
// a pause is not debounced by the cleared flag, a stop is.
func TestTick_PausedClearsEveryTick(t *testing.T) {
	te := newTestEngine(t)

	te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPaused, nil).Times(3)
	te.presence.EXPECT().Clear(gomock.Any()).Return(nil).Times(3)

	state := ReconcilerState{PreviousTitle: "1. Queen - Bohemian Rhapsody - Winamp"}
	for i := 0; i < 3; i++ {
		te.engine.Tick(context.Background(), &state)
	}

	if !state.Cleared || state.PreviousTitle != "" {
		t.Errorf("unexpected state after pause: %+v", state)
	}
}

func TestTick_PlayingAfterStopRepushesSameTrack(t *testing.T) {
	te := newTestEngine(t)
	raw := "1. Queen - Bohemian Rhapsody - Winamp"

	gomock.InOrder(
		te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil),
		te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil),
		te.player.EXPECT().PlaylistPosition(gomock.Any()).Return(0, nil),
		te.player.EXPECT().PlaybackOffsetMillis(gomock.Any()).Return(0, nil),
		te.presence.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil),

		te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusStopped, nil),
		te.presence.EXPECT().Clear(gomock.Any()).Return(nil),

		te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusStopped, nil),

		te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil),
		te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil),
		te.player.EXPECT().PlaylistPosition(gomock.Any()).Return(0, nil),
		te.player.EXPECT().PlaybackOffsetMillis(gomock.Any()).Return(0, nil),
		te.presence.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil),

		te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusStopped, nil),
		te.presence.EXPECT().Clear(gomock.Any()).Return(nil),
	)

	var state ReconcilerState
	for i := 0; i < 5; i++ {
		te.engine.Tick(context.Background(), &state)
	}

	if !state.Cleared {
		t.Error("expected cleared state at the end of the sequence")
	}
}

func TestTick_Failures(t *testing.T) {
	raw := "1. Queen - Bohemian Rhapsody - Winamp"
	initial := ReconcilerState{PreviousTitle: "2. Other - Song - Winamp", Cleared: false}

	tests := []struct {
		name      string
		setupMock func(*testEngine)
		expected  ReconcilerState
	}{
		{
			name: "Status Read Error Skips Tick",
			setupMock: func(te *testEngine) {
				te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.PlayerStatus(""), fmt.Errorf("window not found"))
			},
			expected: initial,
		},
		{
			name: "Title Read Error Skips Tick",
			setupMock: func(te *testEngine) {
				te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil)
				te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return("", fmt.Errorf("window not found"))
			},
			expected: initial,
		},
		{
			name: "Tracker Error Skips Tick",
			setupMock: func(te *testEngine) {
				te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil)
				te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil)
				te.player.EXPECT().PlaylistPosition(gomock.Any()).Return(0, fmt.Errorf("window not found"))
			},
			expected: initial,
		},
		{
			name: "Update Error Keeps Previous Title",
			setupMock: func(te *testEngine) {
				te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusPlaying, nil)
				te.player.EXPECT().NowPlayingTitle(gomock.Any()).Return(raw, nil)
				te.player.EXPECT().PlaylistPosition(gomock.Any()).Return(0, nil)
				te.player.EXPECT().PlaybackOffsetMillis(gomock.Any()).Return(0, nil)
				te.presence.EXPECT().Update(gomock.Any(), gomock.Any()).Return(fmt.Errorf("pipe closed"))
			},
			expected: initial,
		},
		{
			name: "Clear Error Keeps Displaying State",
			setupMock: func(te *testEngine) {
				te.player.EXPECT().PlayingStatus(gomock.Any()).Return(domain.StatusStopped, nil)
				te.presence.EXPECT().Clear(gomock.Any()).Return(fmt.Errorf("pipe closed"))
			},
			expected: initial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEngine(t)
			tt.setupMock(te)

			state := initial
			te.engine.Tick(context.Background(), &state)

			if diff := cmp.Diff(tt.expected, state); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_StartStop(t *testing.T) {
	te := newTestEngine(t)

	statusCalls := make(chan struct{}, 16)
	te.player.EXPECT().PlayingStatus(gomock.Any()).
		DoAndReturn(func(context.Context) (domain.PlayerStatus, error) {
			statusCalls <- struct{}{}
			return domain.StatusStopped, nil
		}).MinTimes(3)
	te.presence.EXPECT().Clear(gomock.Any()).Return(nil).Times(1)

	if err := te.engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// A second Start is a no-op
	if err := te.engine.Start(context.Background()); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for calls := 0; calls < 3; {
		select {
		case <-statusCalls:
			calls++
		case <-time.After(10 * time.Millisecond):
			te.clock.Advance(time.Second)
		case <-deadline:
			t.Fatalf("Timeout: only %d ticks observed", calls)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := te.engine.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	// Stop on a stopped engine is a no-op
	if err := te.engine.Stop(ctx); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}
