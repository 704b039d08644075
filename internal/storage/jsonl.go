package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"swapcap/internal/model"
)

// JsonlSink appends swap rows to a JSONL file, one line per record.
type JsonlSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlSink(path string) *JsonlSink {
	return &JsonlSink{path: path}
}

// Append writes the record's canonical row as one JSON line.
func (s *JsonlSink) Append(_ context.Context, record model.SwapRecord) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create output dir: %v", ErrPersistence, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open output file: %v", ErrPersistence, err)
	}
	defer file.Close()

	line, err := json.Marshal(record.Row())
	if err != nil {
		return fmt.Errorf("%w: marshal swap row: %v", ErrPersistence, err)
	}

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("%w: write swap row: %v", ErrPersistence, err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: write newline: %v", ErrPersistence, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: flush output: %v", ErrPersistence, err)
	}

	return nil
}

func (s *JsonlSink) Close() error {
	return nil
}
