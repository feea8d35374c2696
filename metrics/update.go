package metrics

import (
	"fmt"
	"sync/atomic"
)

// SessionMetrics counts what happened to the order list during one session.
type SessionMetrics struct {
	Added           atomic.Int32
	Duplicates      atomic.Int32
	Removed         atomic.Int32
	QuantityUpdates atomic.Int32
	Searches        atomic.Int32
	Exports         atomic.Int32
	PersistFailures atomic.Int32
}

func (m *SessionMetrics) String() string {
	return fmt.Sprintf("added=%d duplicates=%d removed=%d quantity_updates=%d searches=%d exports=%d persist_failures=%d",
		m.Added.Load(), m.Duplicates.Load(), m.Removed.Load(), m.QuantityUpdates.Load(),
		m.Searches.Load(), m.Exports.Load(), m.PersistFailures.Load())
}
