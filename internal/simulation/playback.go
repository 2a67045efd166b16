package simulation

import (
	"errors"
	"fmt"
)

// PlaybackState is the state of a client-side animation player.
type PlaybackState string

const (
	StateStopped  PlaybackState = "stopped"
	StatePlaying  PlaybackState = "playing"
	StatePaused   PlaybackState = "paused"
	StateFinished PlaybackState = "finished"
)

var (
	// ErrInvalidTransition is returned when an action does not apply to the current state.
	ErrInvalidTransition = errors.New("invalid playback transition")
	// ErrFrameOutOfRange is returned when seeking outside the frame sequence.
	ErrFrameOutOfRange = errors.New("frame index out of range")
)

// Playback steps through discrete frame indices. It holds no timer; the caller
// drives it with Tick.
type Playback struct {
	frames int
	index  int
	state  PlaybackState
}

// NewPlayback creates a stopped player over frameCount frames.
func NewPlayback(frameCount int) *Playback {
	if frameCount < 1 {
		frameCount = 1
	}
	return &Playback{frames: frameCount, state: StateStopped}
}

// State returns the current state.
func (p *Playback) State() PlaybackState { return p.state }

// Index returns the current frame index.
func (p *Playback) Index() int { return p.index }

// Progress returns the current frame's race progress in [0, 1].
func (p *Playback) Progress() float64 {
	if p.frames == 1 {
		return 1
	}
	return float64(p.index) / float64(p.frames-1)
}

// Play starts or resumes playback. Playing a finished race restarts it.
func (p *Playback) Play() error {
	switch p.state {
	case StatePlaying:
		return nil
	case StateFinished:
		p.index = 0
	}
	p.state = StatePlaying
	if p.frames == 1 {
		p.state = StateFinished
	}
	return nil
}

// Pause halts playback on the current frame.
func (p *Playback) Pause() error {
	if p.state != StatePlaying {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, p.state)
	}
	p.state = StatePaused
	return nil
}

// Tick advances one frame while playing and reports whether it moved.
func (p *Playback) Tick() bool {
	if p.state != StatePlaying {
		return false
	}
	p.advance()
	return true
}

// Step advances one frame while stopped or paused.
func (p *Playback) Step() error {
	switch p.state {
	case StatePlaying:
		return fmt.Errorf("%w: step while playing", ErrInvalidTransition)
	case StateFinished:
		return fmt.Errorf("%w: step past the last frame", ErrInvalidTransition)
	}
	p.state = StatePaused
	p.advance()
	return nil
}

// Seek jumps to frame i. A stopped or finished player becomes paused, or
// finished when i is the last frame; a playing player keeps playing.
func (p *Playback) Seek(i int) error {
	if i < 0 || i >= p.frames {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, i, p.frames)
	}
	p.index = i
	switch {
	case i == p.frames-1:
		p.state = StateFinished
	case p.state != StatePlaying:
		p.state = StatePaused
	}
	return nil
}

// Reset returns to the first frame, stopped.
func (p *Playback) Reset() {
	p.index = 0
	p.state = StateStopped
}

func (p *Playback) advance() {
	if p.index < p.frames-1 {
		p.index++
	}
	if p.index == p.frames-1 {
		p.state = StateFinished
	}
}
