package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// Archive writes notifications as zstd-compressed JSON lines, one file per
// game year: notifications-1492.jsonl.zst, notifications-1493.jsonl.zst, ...
type Archive struct {
	dir string
	log *slog.Logger

	mu      sync.Mutex
	curYear int
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewArchive creates an archive rooted at dir. Files are opened lazily.
func NewArchive(dir string, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{dir: dir, log: logger}
}

// Path returns the file holding the given game year.
func (a *Archive) Path(year int) string {
	return filepath.Join(a.dir, fmt.Sprintf("notifications-%d.jsonl.zst", year))
}

// Write appends one notification, rotating when the game year changes.
func (a *Archive) Write(e game.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.w == nil || e.Date.Year != a.curYear {
		if err := a.rotateLocked(e.Date.Year); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := a.w.Write(b); err != nil {
		return err
	}
	if err := a.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := a.w.Flush(); err != nil {
		return err
	}
	// The frame stays open until Close; flushed blocks are already readable.
	return a.enc.Flush()
}

// Close finishes the current zstd frame.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

// Log implements game.Sink. Log lines are not archived.
func (a *Archive) Log(game.LogEntry) {}

// Notify implements game.Sink.
func (a *Archive) Notify(e game.Event) {
	if err := a.Write(e); err != nil {
		a.log.Error("archive write failed", "year", e.Date.Year, "error", err)
	}
}

func (a *Archive) rotateLocked(year int) error {
	if err := a.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(a.Path(year), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	a.f = f
	a.enc = enc
	a.w = bufio.NewWriterSize(enc, 32*1024)
	a.curYear = year
	return nil
}

func (a *Archive) closeLocked() error {
	var err error
	if a.w != nil {
		_ = a.w.Flush()
	}
	if a.enc != nil {
		err = a.enc.Close()
		a.enc = nil
	}
	if a.f != nil {
		_ = a.f.Close()
		a.f = nil
	}
	a.w = nil
	return err
}

// ReadArchive decodes every notification in one archive file. Appended
// sessions produce concatenated zstd frames, which the decoder reads in turn.
// A frame still open by a running or crashed writer yields the lines flushed
// so far.
func ReadArchive(path string) ([]game.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []game.Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e game.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("decode %s: %w", path, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return out, err
	}
	return out, nil
}
