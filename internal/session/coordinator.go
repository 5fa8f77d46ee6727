package session

import (
	"context"
	"sync"
	"time"

	"github.com/dom/league-draft-engine/internal/oracle"
	"go.uber.org/zap"
)

// noTurn marks the coordinator as holding no outstanding interest; any
// in-flight response arriving in that state is discarded.
const noTurn = -1

// Coordinator fetches recommendations from the oracle at every turn
// boundary. The fetch is asynchronous and can race with further turn
// changes, so every request is tagged with the turn index it was issued
// for and the response is dropped unless that tag is still current when it
// lands. Changing the turn is the cancellation signal; the in-flight HTTP
// call itself is not aborted, only its result ignored.
type Coordinator struct {
	provider oracle.Provider
	timeout  time.Duration
	logger   *zap.SugaredLogger

	onResult func(turnIndex int, recs []oracle.Recommendation)
	onError  func(turnIndex int, err error)

	mu      sync.Mutex
	current int
}

// NewCoordinator creates a coordinator delivering results through the two
// callbacks. Callbacks run on the fetch goroutine and only ever for the
// still-current turn.
func NewCoordinator(
	provider oracle.Provider,
	timeout time.Duration,
	logger *zap.SugaredLogger,
	onResult func(turnIndex int, recs []oracle.Recommendation),
	onError func(turnIndex int, err error),
) *Coordinator {
	return &Coordinator{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		onResult: onResult,
		onError:  onError,
		current:  noTurn,
	}
}

// TurnChanged supersedes any outstanding fetch and issues a new one for
// the given turn. The snapshot in req must describe the draft as of that
// turn.
func (c *Coordinator) TurnChanged(turnIndex int, req oracle.DraftRequest) {
	if c.provider == nil {
		return
	}

	c.mu.Lock()
	c.current = turnIndex
	c.mu.Unlock()

	go c.fetch(turnIndex, req)
}

// Invalidate discards the result of any in-flight fetch. Called on reset,
// pause and completion.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	c.current = noTurn
	c.mu.Unlock()
}

func (c *Coordinator) fetch(turnIndex int, req oracle.DraftRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	recs, err := c.provider.GetRecommendations(ctx, req)

	c.mu.Lock()
	stale := c.current != turnIndex
	c.mu.Unlock()

	if stale {
		c.logger.Debugw("discarding stale recommendation response", "turn", turnIndex)
		return
	}

	if err != nil {
		c.logger.Warnw("recommendation fetch failed", "turn", turnIndex, "error", err)
		c.onError(turnIndex, err)
		return
	}
	c.onResult(turnIndex, recs)
}
