// Package player reconstructs timed playback of a cast through an injected
// terminal renderer, so the sequencing logic stays testable without a real
// terminal.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"glyphcast/internal/logging"
	"glyphcast/internal/movie"
)

// Renderer draws one text frame at a time.
type Renderer interface {
	Clear()
	WriteLine(line string) error
}

// Gate blocks playback until the viewer signals readiness.
type Gate interface {
	WaitForStart() error
}

// NopGate starts playback immediately.
type NopGate struct{}

func (NopGate) WaitForStart() error { return nil }

// Options configures playback behavior.
type Options struct {
	FrameCounter bool
	Loop         bool
}

// Player renders casts frame by frame. Playback is strictly sequential and
// single-threaded.
type Player struct {
	opts   Options
	logger *slog.Logger
}

// New builds a player. The logger may be nil.
func New(opts Options, logger *slog.Logger) *Player {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Player{opts: opts, logger: logger}
}

// Play waits on the gate, then renders each frame and sleeps 1/frameRate
// between frames. Cancelling ctx stops playback cleanly after the frame being
// rendered; it is checked only between frames and never fails the call.
// Render errors (a closed pipe, usually) are returned as-is.
func (p *Player) Play(ctx context.Context, m *movie.Movie, r Renderer, gate Gate) error {
	if len(m.Frames) == 0 {
		return nil
	}
	rate := m.Header.FrameRate
	if rate < 1 {
		rate = 1
	}
	frameDelay := time.Second / time.Duration(rate)

	if gate == nil {
		gate = NopGate{}
	}
	if err := gate.WaitForStart(); err != nil {
		return err
	}

	log := p.logger.With("component", "player")
	log.Debug("playback starting", "frames", len(m.Frames), "rate", rate, "loop", p.opts.Loop)

	for {
		for i := range m.Frames {
			select {
			case <-ctx.Done():
				log.Debug("playback interrupted", "frame", i)
				return nil
			default:
			}

			delay := time.After(frameDelay)
			if err := p.renderFrame(m, i, r); err != nil {
				return err
			}

			select {
			case <-delay:
			case <-ctx.Done():
				log.Debug("playback interrupted", "frame", i)
				return nil
			}
		}
		if !p.opts.Loop {
			return nil
		}
	}
}

func (p *Player) renderFrame(m *movie.Movie, i int, r Renderer) error {
	r.Clear()
	if p.opts.FrameCounter {
		if err := r.WriteLine(fmt.Sprintf("frame %d/%d", i+1, len(m.Frames))); err != nil {
			return err
		}
	}
	for _, row := range m.FrameRows(i) {
		if err := r.WriteLine(row); err != nil {
			return err
		}
	}
	return nil
}
