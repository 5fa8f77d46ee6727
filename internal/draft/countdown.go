package draft

// CountdownState is the phase of the per-turn countdown.
type CountdownState string

const (
	CountdownIdle    CountdownState = "idle"
	CountdownRunning CountdownState = "running"
	CountdownPaused  CountdownState = "paused"
	CountdownExpired CountdownState = "expired"
)

// DefaultTurnSeconds is the standard per-turn duration.
const DefaultTurnSeconds = 30

// Countdown is the per-turn timer as a free-standing state machine. It has
// no clock of its own: production drives Tick from a ticker goroutine in
// the session layer, tests drive it directly. Expiry is observable but
// never commits an action; advancing the turn stays an explicit caller
// decision.
//
// Countdown is not safe for concurrent use; callers serialize Tick against
// Start/Pause/Resume, which also gives the apply-then-reset atomicity the
// session relies on.
type Countdown struct {
	duration  int
	remaining int
	state     CountdownState
}

// NewCountdown creates an idle countdown with the given full duration in
// ticks.
func NewCountdown(duration int) *Countdown {
	return &Countdown{
		duration:  duration,
		remaining: duration,
		state:     CountdownIdle,
	}
}

// Start moves the countdown to running with a full duration. Starting a
// running countdown resets it; this is what a committed action does to
// claim the next turn's time.
func (c *Countdown) Start() {
	c.remaining = c.duration
	c.state = CountdownRunning
}

// Tick consumes one time unit while running. It returns true on the tick
// that reaches zero and flips the countdown to expired. Ticks in any other
// state are ignored.
func (c *Countdown) Tick() bool {
	if c.state != CountdownRunning {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = CountdownExpired
		return true
	}
	return false
}

// Pause freezes the remaining time. Only a running countdown can pause.
func (c *Countdown) Pause() {
	if c.state == CountdownRunning {
		c.state = CountdownPaused
	}
}

// Resume continues from the frozen remaining time.
func (c *Countdown) Resume() {
	if c.state == CountdownPaused {
		c.state = CountdownRunning
	}
}

// Stop returns the countdown to idle with a full duration.
func (c *Countdown) Stop() {
	c.remaining = c.duration
	c.state = CountdownIdle
}

// Remaining returns the ticks left for the current turn.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// State returns the countdown phase.
func (c *Countdown) State() CountdownState {
	return c.state
}

// Running reports whether ticks are currently consumed.
func (c *Countdown) Running() bool {
	return c.state == CountdownRunning
}
