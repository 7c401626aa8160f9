package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"git.sr.ht/~whereswaldon/livechart/logging"
	"git.sr.ht/~whereswaldon/livechart/metrics"
)

// Source provides the records of one chart.
type Source interface {
	Snapshot() []Record
}

// ingestBatch bounds how many parsed lines are published with one append.
const ingestBatch = 256

// DefaultPollInterval is how often a tailer checks its file even without a
// filesystem event. Some filesystems (network mounts, some container volumes)
// never deliver write notifications.
const DefaultPollInterval = time.Second

var errWatcherClosed = errors.New("file watcher closed")

// FileSource is a Source backed by a delimited text file that is being appended to.
type FileSource struct {
	path   string
	sep    string
	series *Series
	tailer *Tailer

	monitor      *Monitor
	pollInterval time.Duration
	log          zerolog.Logger
}

var _ Source = (*FileSource)(nil)

// FileSourceOption configures a FileSource.
type FileSourceOption func(*FileSource)

// WithMonitor reports ingestion progress and tail errors to m.
func WithMonitor(m *Monitor) FileSourceOption {
	return func(f *FileSource) {
		f.monitor = m
	}
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) FileSourceOption {
	return func(f *FileSource) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// NewFileSource reads every complete line currently in the file at path into a
// new series. Lines appended later are picked up by the source's Tailer. An
// error is returned if the file cannot be opened or read.
func NewFileSource(path, sep string, opts ...FileSourceOption) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed resolving source path %q: %w", path, err)
	}
	src := &FileSource{
		path:         abs,
		sep:          sep,
		series:       NewSeries(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(src)
	}
	src.log = logging.Component("datasource").With().Str("source", abs).Logger()

	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("failed opening source %q: %w", path, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed inspecting source %q: %w", path, err)
	}
	lines := newLineReader(file, 0)
	n, err := src.ingest(lines)
	if err != nil {
		return nil, fmt.Errorf("failed reading source %q: %w", path, err)
	}
	src.tailer = &Tailer{
		src:      src,
		offset:   lines.Offset(),
		position: lines.Offset(),
		identity: info,
	}
	src.monitor.addSource()
	src.log.Info().Int("records", n).Int64("offset", lines.Offset()).Msg("loaded source")
	return src, nil
}

// Path returns the absolute path of the source file.
func (f *FileSource) Path() string {
	return f.path
}

// Series returns the series the source appends to.
func (f *FileSource) Series() *Series {
	return f.series
}

// Snapshot implements Source.
func (f *FileSource) Snapshot() []Record {
	return f.series.Snapshot()
}

// Tailer returns the background task that follows the file. There is exactly
// one per source; it is meant to be run by a supervisor.
func (f *FileSource) Tailer() *Tailer {
	return f.tailer
}

// ingest parses complete lines until the reader runs dry, appending them to the
// series in batches. Reaching the end of the available data is not an error.
func (f *FileSource) ingest(lines *lineReader) (int, error) {
	batch := make([]Record, 0, ingestBatch)
	total, fallbacks := 0, 0
	flush := func() {
		f.series.Append(batch...)
		total += len(batch)
		batch = batch[:0]
	}
	var err error
	for {
		var line string
		line, err = lines.ReadLine()
		if err != nil {
			break
		}
		rec, zeroed := ParseLineCount(f.sep, line)
		fallbacks += zeroed
		batch = append(batch, rec)
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()
	if total > 0 {
		metrics.RecordIngest(f.path, total, fallbacks)
		metrics.SetSeriesLength(f.path, f.series.Len())
		f.monitor.ingested(total)
	}
	if errors.Is(err, io.EOF) {
		return total, nil
	}
	return total, err
}

// Tailer follows a FileSource's file and appends every newly completed line to
// its series. It survives truncation and rotation: when the path shrinks below
// the read offset or names a different file, reading restarts at the beginning
// of the current file.
//
// Tailer implements suture.Service. Serve returns an error on I/O or watcher
// failures; the supervisor restarts it and it resumes from its last offset.
type Tailer struct {
	src      *FileSource
	// offset is the end of the last complete line, where a reopened file resumes.
	offset   int64
	// position is how far the current reader has read, including a partial line.
	position int64
	identity os.FileInfo
}

func (t *Tailer) String() string {
	return "tail " + t.src.path
}

// Serve blocks, ingesting appended lines until ctx is done.
func (t *Tailer) Serve(ctx context.Context) error {
	err := t.serve(ctx)
	if err != nil && ctx.Err() == nil {
		metrics.RecordTailError(t.src.path)
		t.src.monitor.tailError(err)
		t.src.log.Warn().Err(err).Msg("tailing interrupted")
		return err
	}
	return nil
}

func (t *Tailer) serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory rather than the file so that a replacement file
	// created by log rotation is noticed.
	dir := filepath.Dir(t.src.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed watching %q: %w", dir, err)
	}
	file, lines, err := t.open()
	if err != nil {
		return err
	}
	defer func() {
		file.Close()
	}()
	poll := time.NewTicker(t.src.pollInterval)
	defer poll.Stop()

	for {
		if err := t.drain(lines); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return errWatcherClosed
			}
			if filepath.Clean(ev.Name) != t.src.path {
				continue
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errWatcherClosed
			}
			return fmt.Errorf("failed watching %q: %w", dir, err)
		case <-poll.C:
		}
		reason, err := t.replaced()
		if errors.Is(err, fs.ErrNotExist) {
			// Rotated away and not yet recreated; keep draining the old file.
			continue
		} else if err != nil {
			return err
		}
		if reason == "" {
			continue
		}
		// Pick up whatever the writer flushed to the old file before switching.
		if err := t.drain(lines); err != nil {
			return err
		}
		file.Close()
		t.src.log.Info().Str("reason", reason).Msg("reopening source")
		metrics.RecordReopen(t.src.path, reason)
		t.offset = 0
		file, lines, err = t.open()
		if err != nil {
			return err
		}
	}
}

// replaced reports why the file at the source path can no longer be read from
// the current offset, or "" if it can.
func (t *Tailer) replaced() (string, error) {
	info, err := os.Stat(t.src.path)
	if err != nil {
		return "", err
	}
	switch {
	case !os.SameFile(info, t.identity):
		return "rotated", nil
	case info.Size() < t.position:
		return "truncated", nil
	}
	return "", nil
}

// open opens the source path and positions it at the tailer's offset. If the
// file was replaced or truncated since the offset was recorded, it starts over.
func (t *Tailer) open() (*os.File, *lineReader, error) {
	file, err := os.Open(t.src.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed opening %q: %w", t.src.path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed inspecting %q: %w", t.src.path, err)
	}
	if (t.identity != nil && !os.SameFile(info, t.identity)) || info.Size() < t.offset {
		t.offset = 0
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed seeking %q: %w", t.src.path, err)
	}
	t.identity = info
	t.position = t.offset
	return file, newLineReader(file, t.offset), nil
}

func (t *Tailer) drain(lines *lineReader) error {
	n, err := t.src.ingest(lines)
	t.offset = lines.Offset()
	t.position = lines.Position()
	if err != nil {
		return fmt.Errorf("failed reading %q: %w", t.src.path, err)
	}
	if n > 0 {
		t.src.log.Debug().Int("records", n).Int64("offset", t.offset).Msg("ingested lines")
	}
	return nil
}
