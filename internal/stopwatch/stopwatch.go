package stopwatch

import "time"

// RunState is either Paused or Running.
type RunState int

const (
	Paused RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "Running"
	}
	return "Paused"
}

// Lap is a checkpoint. Total is the elapsed time when the lap was taken and
// Split is Total minus the previous lap's Total (or Total for the first lap).
type Lap struct {
	Total time.Duration
	Split time.Duration
}

// Stopwatch holds the timing state of a single stopwatch. It is not safe for
// concurrent use; the owner serialises every call.
type Stopwatch struct {
	clock   Clock
	state   RunState
	elapsed time.Duration
	anchor  time.Time
	laps    []Lap
}

// New returns a paused stopwatch at zero. A nil clock means SystemClock.
func New(clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stopwatch{clock: clock}
}

func (s *Stopwatch) State() RunState { return s.state }

func (s *Stopwatch) Running() bool { return s.state == Running }

// Elapsed returns the last sampled elapsed time.
func (s *Stopwatch) Elapsed() time.Duration { return s.elapsed }

// ElapsedMs returns Elapsed in whole milliseconds.
func (s *Stopwatch) ElapsedMs() int64 { return s.elapsed.Milliseconds() }

// Anchor is the instant for which elapsed == now - anchor while running.
// It is the zero time until the first Start.
func (s *Stopwatch) Anchor() time.Time { return s.anchor }

// Laps returns a copy of the recorded laps in the order they were taken.
func (s *Stopwatch) Laps() []Lap {
	out := make([]Lap, len(s.laps))
	copy(out, s.laps)
	return out
}

func (s *Stopwatch) LapCount() int { return len(s.laps) }

// Start moves a paused stopwatch to running, anchoring it so that the time
// already accumulated is kept. It reports whether the state changed.
func (s *Stopwatch) Start() bool {
	if s.state == Running {
		return false
	}
	s.anchor = s.clock.Now().Add(-s.elapsed)
	s.state = Running
	return true
}

// Pause freezes elapsed at its last sampled value.
func (s *Stopwatch) Pause() bool {
	if s.state == Paused {
		return false
	}
	s.state = Paused
	return true
}

// Toggle starts a paused stopwatch or pauses a running one and returns the
// new state.
func (s *Stopwatch) Toggle() RunState {
	if s.state == Running {
		s.Pause()
	} else {
		s.Start()
	}
	return s.state
}

// Sample recomputes elapsed from the anchor, truncated to whole
// milliseconds. It does nothing while paused. A clock that steps backwards
// never decreases elapsed.
func (s *Stopwatch) Sample() time.Duration {
	if s.state != Running {
		return s.elapsed
	}
	if d := s.clock.Now().Sub(s.anchor).Truncate(time.Millisecond); d > s.elapsed {
		s.elapsed = d
	}
	return s.elapsed
}

// CanLap reports whether Lap would record anything.
func (s *Stopwatch) CanLap() bool {
	return s.state == Running || s.elapsed != 0
}

// Lap appends a lap at the current elapsed time. It is a no-op on a paused
// stopwatch that has never accumulated time.
func (s *Stopwatch) Lap() (Lap, bool) {
	if !s.CanLap() {
		return Lap{}, false
	}
	var last time.Duration
	if n := len(s.laps); n > 0 {
		last = s.laps[n-1].Total
	}
	lap := Lap{Total: s.elapsed, Split: s.elapsed - last}
	s.laps = append(s.laps, lap)
	return lap, true
}

// Delta returns lap i's Total minus the previous lap's Total. This is the
// same value as Laps()[i].Split.
func (s *Stopwatch) Delta(i int) time.Duration {
	if i < 0 || i >= len(s.laps) {
		return 0
	}
	var prev time.Duration
	if i > 0 {
		prev = s.laps[i-1].Total
	}
	return s.laps[i].Total - prev
}

// CanReset reports whether Reset would change anything.
func (s *Stopwatch) CanReset() bool {
	return s.state == Running || s.elapsed != 0 || len(s.laps) > 0
}

// Reset pauses the stopwatch, zeroes elapsed and drops every lap.
func (s *Stopwatch) Reset() {
	s.state = Paused
	s.elapsed = 0
	s.anchor = time.Time{}
	s.laps = nil
}

// ClearLaps drops every lap and leaves the run state and elapsed alone. It
// reports whether there was anything to clear.
func (s *Stopwatch) ClearLaps() bool {
	if len(s.laps) == 0 {
		return false
	}
	s.laps = nil
	return true
}
