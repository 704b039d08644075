package storage

import (
	"context"
	"errors"

	"swapcap/internal/model"
)

// ErrPersistence marks a storage-layer failure.
var ErrPersistence = errors.New("persistence failure")

// Storage defines an append-only sink for swap records.
type Storage interface {
	Append(ctx context.Context, record model.SwapRecord) error
	Close() error
}

// MultiSink fans one record out to several sinks in order. The first
// failing sink aborts the append; there is no partial-success mode.
type MultiSink struct {
	sinks []Storage
}

func NewMultiSink(sinks ...Storage) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append writes the record to every sink sequentially.
func (m *MultiSink) Append(ctx context.Context, record model.SwapRecord) error {
	for _, sink := range m.sinks {
		if err := sink.Append(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks, returning the first error seen.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
