package replay

import (
	internalreplay "github.com/SmitUplenchwar2687/Retrace/internal/replay"
)

// Store holds the timeline under review.
type Store = internalreplay.Store

// Player walks an agent through a timeline, one sample per interval.
type Player = internalreplay.Player

// PlayerOption configures a Player.
type PlayerOption = internalreplay.PlayerOption

// State is the playback state of a Player.
type State = internalreplay.State

const (
	Idle    = internalreplay.Idle
	Playing = internalreplay.Playing
	Paused  = internalreplay.Paused
)

// Samples is the read-only view of a timeline the Player walks.
type Samples = internalreplay.Samples

// PositionSink receives the replayed agent position.
type PositionSink = internalreplay.PositionSink

// PathRenderer replaces the currently drawn polyline.
type PathRenderer = internalreplay.PathRenderer

// PathFunc adapts a function to PathRenderer.
type PathFunc = internalreplay.PathFunc

// ProgressListener is told the current sample index and the sample count.
type ProgressListener = internalreplay.ProgressListener

// Transport is the play/pause button and seek bar over a Player.
type Transport = internalreplay.Transport

// Snapshot is the transport state shown to a reviewer.
type Snapshot = internalreplay.Snapshot

// Filter selects key events for marker rendering.
type Filter = internalreplay.Filter

var (
	WithInterval   = internalreplay.WithInterval
	WithSink       = internalreplay.WithSink
	WithFullPath   = internalreplay.WithFullPath
	WithWalkedPath = internalreplay.WithWalkedPath
	WithProgress   = internalreplay.WithProgress
	WithLogger     = internalreplay.WithLogger

	TimeAt            = internalreplay.TimeAt
	ProgressFraction  = internalreplay.ProgressFraction
	IndexFromFraction = internalreplay.IndexFromFraction
	NewSnapshot       = internalreplay.NewSnapshot
	ParseKeys         = internalreplay.ParseKeys
)

// NewStore creates an empty store.
func NewStore() *Store {
	return internalreplay.NewStore()
}

// NewPlayer creates an idle Player over samples.
func NewPlayer(samples Samples, opts ...PlayerOption) *Player {
	return internalreplay.NewPlayer(samples, opts...)
}

// NewTransport wraps p.
func NewTransport(p *Player) *Transport {
	return internalreplay.NewTransport(p)
}
