// internal/workspace/session.go
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"golang.org/x/sync/errgroup"

	"saturn/internal/discovery"
	"saturn/internal/eventhub"
	"saturn/internal/note"
	"saturn/internal/storage"
)

// UntitledTitle is the display name of records created from external content
const UntitledTitle = "Untitled"

var (
	// ErrStaleWorkspace is returned when a newer SetWorkspace overtook this one
	ErrStaleWorkspace = errors.New("workspace changed while scanning")
	// ErrStaleLoad is returned when a newer load or workspace overtook this one
	ErrStaleLoad = errors.New("load superseded")
	// ErrInvalidIndex is returned for an index outside the file list
	ErrInvalidIndex = errors.New("file index out of range")
	// ErrTransientRecord is returned when saving a record with no backing file
	ErrTransientRecord = fmt.Errorf("%w: active note has no backing file", note.ErrNoActiveFile)
)

// Gateway is the file half of the persistence gateway
type Gateway interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	StatCreatedAt(path string) (time.Time, error)
}

// Publisher receives session state changes and failures
type Publisher interface {
	EmitSessionChanged(snapshot note.Snapshot)
	EmitSessionError(event eventhub.SessionErrorEvent)
}

// DiscoverFunc scans a directory into an ordered file list
type DiscoverFunc func(dir string) (note.FileList, error)

// Option configures a Session
type Option func(*Session)

// WithPublisher sets where snapshots and failures are published
func WithPublisher(p Publisher) Option {
	return func(s *Session) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the session logger
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDiscover replaces the directory scanner
func WithDiscover(fn DiscoverFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.discover = fn
		}
	}
}

// WithClock sets the time source used for transient records
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session holds the workspace file list, the active selection and the
// editing buffer. All transitions serialize on mu; file I/O runs outside it.
type Session struct {
	gateway   Gateway
	queue     *storage.WriteQueue
	discover  DiscoverFunc
	publisher Publisher
	log       logger.Logger
	now       func() time.Time

	mu              sync.Mutex
	directory       string
	files           note.FileList
	activeIndex     int
	buffer          string
	activeCreatedAt string

	// Generations let overtaken scans and loads detect that their result
	// no longer applies. Committing a workspace bumps loadGen too.
	workspaceGen uint64
	loadGen      uint64
	// loading is set while the load started at loadGen has not finished
	loading bool
}

// NewSession creates an empty session on top of gateway
func NewSession(gateway Gateway, opts ...Option) *Session {
	s := &Session{
		gateway:     gateway,
		queue:       storage.NewWriteQueue(gateway),
		discover:    func(dir string) (note.FileList, error) { return discovery.Discover(dir) },
		publisher:   nopPublisher{},
		log:         logger.NewDefaultLogger(),
		now:         time.Now,
		files:       note.FileList{},
		activeIndex: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() note.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() note.Snapshot {
	return note.Snapshot{
		Directory:       s.directory,
		Files:           s.files.Clone(),
		ActiveIndex:     s.activeIndex,
		Buffer:          s.buffer,
		ActiveCreatedAt: s.activeCreatedAt,
		Populated:       s.directory != "" || len(s.files) > 0,
	}
}

// SetWorkspace replaces the file list with the notes of dir and loads the
// first one. Unsaved edits of the previous workspace are not saved.
func (s *Session) SetWorkspace(ctx context.Context, dir string) error {
	s.mu.Lock()
	s.workspaceGen++
	gen := s.workspaceGen
	s.mu.Unlock()

	files, err := s.discover(dir)
	if err != nil {
		s.report("discover", dir, err)
		return err
	}

	var first loaded
	var loadErr error
	if len(files) > 0 {
		first, loadErr = s.fetch(ctx, files[0].Path)
	}

	s.mu.Lock()
	if gen != s.workspaceGen {
		s.mu.Unlock()
		s.log.Debug(fmt.Sprintf("discarding scan of %s: workspace changed", dir))
		return ErrStaleWorkspace
	}

	s.directory = dir
	s.files = files
	s.loadGen++
	s.loading = false
	if len(files) > 0 && loadErr == nil {
		s.commitLocked(0, first)
	} else {
		s.activeIndex = -1
		s.buffer = ""
		s.activeCreatedAt = ""
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publisher.EmitSessionChanged(snap)
	s.log.Info(fmt.Sprintf("workspace %s opened with %d notes", dir, len(files)))

	if loadErr != nil {
		s.report("load", files[0].Path, loadErr)
		return loadErr
	}
	if first.statErr != nil {
		s.report("stat", files[0].Path, first.statErr)
	}
	return nil
}

// SwitchFile saves the outgoing note without waiting for the write and
// loads the note at index.
func (s *Session) SwitchFile(ctx context.Context, index int) error {
	s.mu.Lock()
	if err := s.checkIndexLocked(index); err != nil {
		s.mu.Unlock()
		return err
	}
	if index == s.activeIndex {
		// Returning to the active note drops a load still in flight
		if s.loading {
			s.loadGen++
			s.loading = false
		}
		s.mu.Unlock()
		return nil
	}

	s.stashActiveLocked()
	target, gen := s.beginLoadLocked(index)
	s.mu.Unlock()

	return s.loadInto(ctx, index, target, gen)
}

// LoadActive reads the note at index into the buffer and makes it active.
// Loading the already active note discards unsaved edits.
func (s *Session) LoadActive(ctx context.Context, index int) error {
	s.mu.Lock()
	if err := s.checkIndexLocked(index); err != nil {
		s.mu.Unlock()
		return err
	}
	target, gen := s.beginLoadLocked(index)
	s.mu.Unlock()

	return s.loadInto(ctx, index, target, gen)
}

// EditBuffer replaces the in-memory buffer
func (s *Session) EditBuffer(text string) {
	s.mu.Lock()
	s.buffer = text
	s.mu.Unlock()
}

// SaveActive writes the buffer to the active note and waits for the write
func (s *Session) SaveActive(ctx context.Context) error {
	s.mu.Lock()
	if s.activeIndex < 0 || s.activeIndex >= len(s.files) {
		s.mu.Unlock()
		return note.ErrNoActiveFile
	}
	rec := s.files[s.activeIndex]
	if rec.Transient {
		s.files[s.activeIndex].Content = s.buffer
		s.mu.Unlock()
		return ErrTransientRecord
	}
	result := s.saveAsync(rec.Path, s.buffer)
	s.mu.Unlock()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OpenContent selects externally supplied content as an unsaved record so
// the buffer keeps matching the active list entry. An existing untitled
// record is reused.
func (s *Session) OpenContent(content string) {
	s.mu.Lock()

	index := -1
	for i, rec := range s.files {
		if rec.Transient {
			index = i
			break
		}
	}

	if index != s.activeIndex {
		s.stashActiveLocked()
	}

	now := s.now()
	if index < 0 {
		s.files = append(s.files, note.FileRecord{
			Title:     UntitledTitle,
			Path:      "untitled:" + uuid.New().String(),
			CreatedAt: now,
			Transient: true,
		})
		index = len(s.files) - 1
	}

	s.files[index].Content = content
	s.loadGen++
	s.loading = false
	s.activeIndex = index
	s.buffer = content
	s.activeCreatedAt = FormatCreatedAt(s.files[index].CreatedAt)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publisher.EmitSessionChanged(snap)
}

// Close waits for queued writes to finish
func (s *Session) Close(ctx context.Context) error {
	return s.queue.Flush(ctx)
}

func (s *Session) checkIndexLocked(index int) error {
	if len(s.files) == 0 {
		return note.ErrNoActiveFile
	}
	if index < 0 || index >= len(s.files) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidIndex, index, len(s.files))
	}
	return nil
}

// stashActiveLocked preserves the outgoing buffer: transient records keep
// it in memory, file-backed records get a queued save.
func (s *Session) stashActiveLocked() {
	if s.activeIndex < 0 || s.activeIndex >= len(s.files) {
		return
	}
	out := &s.files[s.activeIndex]
	if out.Transient {
		out.Content = s.buffer
		return
	}
	s.saveAsync(out.Path, s.buffer)
}

func (s *Session) beginLoadLocked(index int) (note.FileRecord, uint64) {
	s.loadGen++
	s.loading = true
	return s.files[index], s.loadGen
}

// saveAsync queues a write and reports its failure when it completes
func (s *Session) saveAsync(path, content string) <-chan error {
	done := s.queue.Enqueue(path, []byte(content))
	result := make(chan error, 1)
	go func() {
		err := <-done
		if err != nil {
			s.report("save", path, err)
		} else {
			s.log.Debug("saved " + path)
		}
		result <- err
		close(result)
	}()
	return result
}

type loaded struct {
	content   string
	createdAt time.Time
	statErr   error
}

// fetch reads a note and its creation time concurrently. Pending writes to
// the same path land first so a load never sees older bytes than a save
// issued before it.
func (s *Session) fetch(ctx context.Context, path string) (loaded, error) {
	if err := s.queue.Wait(ctx, path); err != nil {
		return loaded{}, err
	}

	var l loaded
	var g errgroup.Group
	g.Go(func() error {
		data, err := s.gateway.ReadFile(path)
		if err != nil {
			return err
		}
		l.content = string(data)
		return nil
	})
	g.Go(func() error {
		l.createdAt, l.statErr = s.gateway.StatCreatedAt(path)
		return nil
	})
	if err := g.Wait(); err != nil {
		return loaded{}, err
	}
	return l, nil
}

func (s *Session) loadInto(ctx context.Context, index int, target note.FileRecord, gen uint64) error {
	var l loaded
	var err error
	if target.Transient {
		l = loaded{content: target.Content, createdAt: target.CreatedAt}
	} else {
		l, err = s.fetch(ctx, target.Path)
	}

	s.mu.Lock()
	if gen != s.loadGen {
		s.mu.Unlock()
		s.log.Debug(fmt.Sprintf("discarding load of %s: superseded", target.Path))
		return ErrStaleLoad
	}
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		s.report("load", target.Path, err)
		return err
	}
	s.commitLocked(index, l)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publisher.EmitSessionChanged(snap)
	if l.statErr != nil {
		s.report("stat", target.Path, l.statErr)
	}
	return nil
}

// commitLocked makes a loaded note active in a single step
func (s *Session) commitLocked(index int, l loaded) {
	s.activeIndex = index
	s.buffer = l.content
	if l.statErr != nil {
		s.activeCreatedAt = ""
		return
	}
	s.files[index].CreatedAt = l.createdAt
	s.activeCreatedAt = FormatCreatedAt(l.createdAt)
}

func (s *Session) report(op, path string, err error) {
	s.log.Error(fmt.Sprintf("%s %s: %v", op, path, err))
	s.publisher.EmitSessionError(eventhub.SessionErrorEvent{
		Op:    op,
		Path:  path,
		Error: err.Error(),
	})
}

type nopPublisher struct{}

func (nopPublisher) EmitSessionChanged(note.Snapshot)            {}
func (nopPublisher) EmitSessionError(eventhub.SessionErrorEvent) {}
