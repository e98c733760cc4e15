// internal/storage/queue_test.go
package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingWriter records write order and can block writes to a path
type recordingWriter struct {
	mu     sync.Mutex
	writes map[string][]string
	gate   chan struct{}
	err    error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{writes: make(map[string][]string)}
}

func (w *recordingWriter) WriteFile(path string, data []byte) error {
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes[path] = append(w.writes[path], string(data))
	return w.err
}

func (w *recordingWriter) get(path string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.writes[path]...)
}

func TestWriteQueue_SamePathInOrder(t *testing.T) {
	w := newRecordingWriter()
	q := NewWriteQueue(w)

	var results []<-chan error
	for _, v := range []string{"one", "two", "three"} {
		results = append(results, q.Enqueue("/notes/a.md", []byte(v)))
	}
	for _, r := range results {
		if err := <-r; err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	got := w.get("/notes/a.md")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteQueue_CopiesData(t *testing.T) {
	w := newRecordingWriter()
	w.gate = make(chan struct{})
	q := NewWriteQueue(w)

	buf := []byte("before")
	done := q.Enqueue("/notes/a.md", buf)
	copy(buf, "AFTER!")
	close(w.gate)
	<-done

	if got := w.get("/notes/a.md"); got[0] != "before" {
		t.Errorf("Expected queued bytes to be copied, got %q", got[0])
	}
}

func TestWriteQueue_Wait(t *testing.T) {
	w := newRecordingWriter()
	w.gate = make(chan struct{})
	q := NewWriteQueue(w)

	q.Enqueue("/notes/a.md", []byte("x"))

	done, cancelDone := context.WithCancel(context.Background())
	cancelDone()
	if err := q.Wait(done, "/notes/b.md"); err != nil {
		t.Errorf("Unrelated path should not wait, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Wait(ctx, "/notes/a.md"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline while write is blocked, got %v", err)
	}

	close(w.gate)
	if err := q.Wait(context.Background(), "/notes/a.md"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := q.Wait(done, "/notes/a.md"); err != nil {
		t.Errorf("Drained path should not wait, got %v", err)
	}
}

func TestWriteQueue_ErrorDelivered(t *testing.T) {
	w := newRecordingWriter()
	w.err = errors.New("disk full")
	q := NewWriteQueue(w)

	if err := <-q.Enqueue("/notes/a.md", []byte("x")); err == nil {
		t.Error("Expected write error")
	}
}

func TestWriteQueue_Flush(t *testing.T) {
	w := newRecordingWriter()
	q := NewWriteQueue(w)

	for _, p := range []string{"/a.md", "/b.md", "/c.md"} {
		q.Enqueue(p, []byte(p))
	}
	if err := q.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	for _, p := range []string{"/a.md", "/b.md", "/c.md"} {
		if len(w.get(p)) != 1 {
			t.Errorf("%s: expected 1 write, got %d", p, len(w.get(p)))
		}
	}
}
