package domain

import (
	"math"
	"time"
)

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// UnknownAlbum is the album name used when a file has no readable album tag
const UnknownAlbum = "Unknown Album"

// ParsedTrack is the artist/title pair extracted from the player's now-playing string
type ParsedTrack struct {
	Artist string
	Title  string
}

// PlaybackTiming holds the elapsed offset of the current track and the derived start time.
// Both values are in seconds; Start is a Unix epoch.
type PlaybackTiming struct {
	Offset float64
	Start  float64
}

// StartUnix returns the start epoch floored to whole seconds
func (t PlaybackTiming) StartUnix() int64 {
	return int64(math.Floor(t.Start))
}

// StartTime returns the start epoch as a time.Time
func (t PlaybackTiming) StartTime() time.Time {
	sec, frac := math.Modf(t.Start)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// TrackChange is emitted by the tracker when the now-playing string differs from the last one seen
type TrackChange struct {
	Track ParsedTrack
	// Position is the 0-based playlist index of the track
	Position int
	Timing   PlaybackTiming
}

// AssetDescriptor identifies an uploaded presence image and its hover text
type AssetDescriptor struct {
	Key  string
	Text string
}

// Activity is the payload pushed to the presence display
type Activity struct {
	// Details is the first line, the track title
	Details string
	// State is the second line, "by <artist>"
	State string
	// Start is the Unix epoch (seconds) the elapsed timer counts from
	Start      int64
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
}

// DefaultTextKind selects how the text of the default large asset is produced
type DefaultTextKind int

const (
	// DefaultTextFixed shows a fixed configured string
	DefaultTextFixed DefaultTextKind = iota
	// DefaultTextVersion shows the player's version string
	DefaultTextVersion
	// DefaultTextAlbumName shows the current album name
	DefaultTextAlbumName
)

// DefaultText is the hover text policy for the default large asset
type DefaultText struct {
	Kind DefaultTextKind
	// Text is only meaningful for DefaultTextFixed
	Text string
}

// FixedText returns a DefaultText that always shows text
func FixedText(text string) DefaultText {
	return DefaultText{Kind: DefaultTextFixed, Text: text}
}

// ShowVersion returns a DefaultText that shows the player version
func ShowVersion() DefaultText {
	return DefaultText{Kind: DefaultTextVersion}
}

// ShowAlbumName returns a DefaultText that shows the album name
func ShowAlbumName() DefaultText {
	return DefaultText{Kind: DefaultTextAlbumName}
}

// Render resolves the text for the given album and player version
func (d DefaultText) Render(album, version string) string {
	switch d.Kind {
	case DefaultTextVersion:
		return version
	case DefaultTextAlbumName:
		return album
	default:
		return d.Text
	}
}

// AlbumOverrides maps album lookup keys to asset keys.
// It is loaded once at startup and never mutated afterwards.
type AlbumOverrides struct {
	// Keys maps a lookup key (album name, or "<artist> - <album>") to an asset key
	Keys map[string]string
	// Exceptions lists album names shared by several artists
	Exceptions map[string]struct{}
}

// LookupKey returns the override key for an album, using the compound
// "<artist> - <album>" form for albums listed in Exceptions
func (o AlbumOverrides) LookupKey(album, artist string) string {
	if _, ok := o.Exceptions[album]; ok {
		return artist + " - " + album
	}
	return album
}

// Lookup returns the asset key for an album and whether an override exists
func (o AlbumOverrides) Lookup(album, artist string) (string, bool) {
	key, ok := o.Keys[o.LookupKey(album, artist)]
	return key, ok
}

// PlayerSettings selects and configures the media player adapter
type PlayerSettings struct {
	// Kind is one of "winamp", "mpd" or "mpris"
	Kind string
	// MPDAddress is a host:port or a unix socket path
	MPDAddress     string
	MPDPassword    string
	MusicDirectory string
	// MPRISName is the bus name suffix of the player, empty for the first one found
	MPRISName string
	// PlaylistFile overrides the location of the playlist dumped by Winamp
	PlaylistFile string
}
