package session

import (
	"context"
	"sync"
	"time"

	"github.com/dom/league-draft-engine/internal/oracle"
	"go.uber.org/zap"
)

// PredictionTrigger calls the oracle's predict operation when a draft
// completes. It fires exactly once per completed draft; a failed call can
// be retried explicitly without re-running the draft.
type PredictionTrigger struct {
	provider oracle.Provider
	timeout  time.Duration
	logger   *zap.SugaredLogger

	onResult func(pred *oracle.Prediction)
	onError  func(err error)

	mu    sync.Mutex
	fired bool
}

func NewPredictionTrigger(
	provider oracle.Provider,
	timeout time.Duration,
	logger *zap.SugaredLogger,
	onResult func(pred *oracle.Prediction),
	onError func(err error),
) *PredictionTrigger {
	return &PredictionTrigger{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		onResult: onResult,
		onError:  onError,
	}
}

// DraftCompleted fires the prediction for a newly completed draft. Calls
// after the first are ignored until Reset.
func (p *PredictionTrigger) DraftCompleted(req oracle.DraftRequest) {
	if p.provider == nil {
		return
	}

	p.mu.Lock()
	if p.fired {
		p.mu.Unlock()
		return
	}
	p.fired = true
	p.mu.Unlock()

	go p.predict(req)
}

// Retry re-runs a prediction after a reported failure. It has no effect on
// the draft state machine.
func (p *PredictionTrigger) Retry(req oracle.DraftRequest) {
	if p.provider == nil {
		return
	}

	p.mu.Lock()
	fired := p.fired
	p.mu.Unlock()
	if !fired {
		// Nothing completed yet; DraftCompleted owns the first call.
		return
	}

	go p.predict(req)
}

// Reset re-arms the trigger for the next draft.
func (p *PredictionTrigger) Reset() {
	p.mu.Lock()
	p.fired = false
	p.mu.Unlock()
}

func (p *PredictionTrigger) predict(req oracle.DraftRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	pred, err := p.provider.Predict(ctx, req)
	if err != nil {
		p.logger.Warnw("prediction failed", "error", err)
		p.onError(err)
		return
	}
	p.onResult(pred)
}
