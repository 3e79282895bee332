// Package log persists the game's event stream as day-rotated, zstd
// compressed JSONL files. The stream is an audit trail only; nothing reads
// it back into game state.
package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"farmstead.gg/internal/sim/farm"
)

type EventLogger struct {
	baseDir string

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewEventLogger(dataDir string) *EventLogger {
	return &EventLogger{baseDir: filepath.Join(dataDir, "events")}
}

func (l *EventLogger) Write(ev farm.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := time.Now().UTC().Format("2006-01-02")
	if day != l.curDay {
		if err := l.rotateLocked(day); err != nil {
			return err
		}
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *EventLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *EventLogger) rotateLocked(day string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.baseDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.baseDir, fmt.Sprintf("events-%s.jsonl.zst", day))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.curDay = day
	return nil
}

func (l *EventLogger) closeLocked() error {
	var err1 error
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.enc != nil {
		err1 = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.w = nil
	l.curDay = ""
	return err1
}
