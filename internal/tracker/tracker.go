package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// fieldSeparator splits the player's now-playing string into artist, title and player name
	fieldSeparator = " - "

	// maxOffsetSeconds is the threshold above which a reported offset is treated as bogus.
	// Winamp sometimes reports millions of seconds right after a track starts.
	maxOffsetSeconds = 100000

	// minFieldLength is the shortest text the presence display renders properly
	minFieldLength = 2
)

// Tracker detects track changes in the player's now-playing string and
// computes the track metadata and timing on change
type Tracker struct {
	logger *zap.Logger
	player domain.Player
	clock  clockwork.Clock
}

// NewTracker creates a new track state tracker.
// A nil clock falls back to the wall clock.
func NewTracker(logger *zap.Logger, player domain.Player, clock clockwork.Clock) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		logger: logger,
		player: player,
		clock:  clock,
	}
}

// DetectAndParse compares raw with the previously observed now-playing string.
// It returns false without touching the player when they are equal. Otherwise it
// queries the playlist position and playback offset and returns the parsed change;
// the caller is responsible for remembering raw as the new previous value.
func (t *Tracker) DetectAndParse(ctx context.Context, raw, previous string) (domain.TrackChange, bool, error) {
	if raw == previous {
		return domain.TrackChange{}, false, nil
	}

	position, err := t.player.PlaylistPosition(ctx)
	if err != nil {
		return domain.TrackChange{}, false, fmt.Errorf("failed to read playlist position: %w", err)
	}

	offset, err := t.player.PlaybackOffsetMillis(ctx)
	if err != nil {
		return domain.TrackChange{}, false, fmt.Errorf("failed to read playback offset: %w", err)
	}

	change := domain.TrackChange{
		Track:    ParseTrack(raw, position),
		Position: position,
		Timing:   NewTiming(offset, t.clock.Now()),
	}

	t.logger.Debug("Track change detected",
		zap.String("raw", raw),
		zap.String("artist", change.Track.Artist),
		zap.String("title", change.Track.Title),
		zap.Int("position", position),
		zap.Float64("offset", change.Timing.Offset))

	return change, true, nil
}

// ParseTrack splits a "<index>. <artist> - <title> - <player>" string.
//
// The player name is the last " - " segment and is dropped. The artist is the
// first segment with the characters of "<position+1>. " trimmed from both ends,
// so artists beginning or ending with those digits lose them too (e.g. "Maroon 5"
// at position 4). Titles keep any inner " - ".
func ParseTrack(raw string, position int) domain.ParsedTrack {
	fields := strings.Split(raw, fieldSeparator)
	if len(fields) > 1 {
		fields = fields[:len(fields)-1]
	}

	prefix := strconv.Itoa(position+1) + ". "
	artist := strings.Trim(fields[0], prefix)
	title := strings.Join(fields[1:], fieldSeparator)

	if len([]rune(title)) < minFieldLength {
		title = "Track: " + title
	}

	return domain.ParsedTrack{
		Artist: artist,
		Title:  title,
	}
}

// NewTiming converts the player offset to seconds, discards anomalous values
// and derives the track start epoch from now
func NewTiming(offsetMillis int, now time.Time) domain.PlaybackTiming {
	offset := float64(offsetMillis) / 1000
	if offset >= maxOffsetSeconds {
		offset = 0
	}

	nowSeconds := float64(now.Unix()) + float64(now.Nanosecond())/float64(time.Second)
	return domain.PlaybackTiming{
		Offset: offset,
		Start:  nowSeconds - offset,
	}
}
