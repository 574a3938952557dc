package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is delivered by a sampler tick. gen identifies the run that
// scheduled it.
type tickMsg struct {
	gen uint64
}

// sampler is the periodic sampling task. Every Start and Stop bumps the
// generation, so a tick already in flight when the task is cancelled is
// recognised as stale and dropped. Stop is synchronous and idempotent.
type sampler struct {
	interval time.Duration
	gen      uint64
	active   bool
}

func newSampler(interval time.Duration) *sampler {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &sampler{interval: interval}
}

func (s *sampler) Start() tea.Cmd {
	s.gen++
	s.active = true
	return s.schedule()
}

// Next schedules the following tick of the current run.
func (s *sampler) Next() tea.Cmd {
	if !s.active {
		return nil
	}
	return s.schedule()
}

func (s *sampler) Stop() {
	if !s.active {
		return
	}
	s.active = false
	s.gen++
}

func (s *sampler) Active() bool { return s.active }

// Accept reports whether msg belongs to the live run.
func (s *sampler) Accept(msg tickMsg) bool {
	return s.active && msg.gen == s.gen
}

func (s *sampler) schedule() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
