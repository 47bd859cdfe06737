// Package emit carries narration strings and semantic events out of the
// engine to whatever transport the host wires up.
package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Emitter surfaces payloads on named streams. Implementations may complete
// asynchronously; the engine only waits for the call to return and never
// inspects the payload again.
type Emitter interface {
	Emit(ctx context.Context, stream string, payload any) error
}

// Func adapts a plain function to the Emitter interface.
type Func func(ctx context.Context, stream string, payload any) error

func (f Func) Emit(ctx context.Context, stream string, payload any) error {
	return f(ctx, stream, payload)
}

// Discard drops everything.
var Discard Emitter = Func(func(context.Context, string, any) error { return nil })

// Writer emits JSON lines of the form {"stream": ..., "payload": ...}.
type Writer struct {
	Out io.Writer
}

// NewWriter creates a JSON-lines emitter.
func NewWriter(out io.Writer) *Writer {
	return &Writer{Out: out}
}

func (w *Writer) Emit(ctx context.Context, stream string, payload any) error {
	line := struct {
		Stream  string `json:"stream"`
		Payload any    `json:"payload"`
	}{Stream: stream, Payload: payload}

	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", stream, err)
	}
	data = append(data, '\n')
	if _, err := w.Out.Write(data); err != nil {
		return fmt.Errorf("writing %s payload: %w", stream, err)
	}
	return nil
}

// Recorder keeps everything emitted, for tests and replay tooling.
type Recorder struct {
	Entries []Entry
}

// Entry is one recorded emission.
type Entry struct {
	Stream  string
	Payload any
}

func (r *Recorder) Emit(ctx context.Context, stream string, payload any) error {
	r.Entries = append(r.Entries, Entry{Stream: stream, Payload: payload})
	return nil
}

// On returns the payloads recorded for one stream.
func (r *Recorder) On(stream string) []any {
	var out []any
	for _, e := range r.Entries {
		if e.Stream == stream {
			out = append(out, e.Payload)
		}
	}
	return out
}
