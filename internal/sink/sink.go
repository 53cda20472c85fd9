// Package sink defines the engine's injected persistence contract and a
// handful of collaborators. The core owns no storage format; callers plug
// in whichever Sink fits their deployment.
package sink

import (
	"errors"

	"github.com/chatpulse/cae/internal/cae/model"
)

// ErrAbort, returned from either method, tells the engine to stop emitting
// further messages and return a partial ChatAnalysis immediately.
var ErrAbort = errors.New("sink requested abort")

// Sink is the engine's only persistence contract. Save is called once per
// parsed message in message order; SaveAnalysis is called once with the
// completed rollup.
type Sink interface {
	Save(msg model.PersistedMessage) error
	SaveAnalysis(analysis model.ChatAnalysis) error
}

// NullSink discards everything. It is the default when a caller has no
// persistence requirement and never returns an error or ErrAbort.
type NullSink struct{}

func (NullSink) Save(model.PersistedMessage) error     { return nil }
func (NullSink) SaveAnalysis(model.ChatAnalysis) error { return nil }
