package feed

import (
	"encoding/xml"
	"fmt"
	"io"
)

// State is the position of a Writer in the document.
type State int

const (
	// StateStart: nothing written yet.
	StateStart State = iota
	// StateStreaming: declaration and root start tag written.
	StateStreaming
	// StateEnd: root closed, no further writes.
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateStreaming:
		return "streaming"
	case StateEnd:
		return "end"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Writer streams one XML document: a declaration, a root element and one
// child per WriteRecord. Each record is flushed to the underlying writer
// before WriteRecord returns.
type Writer struct {
	w     io.Writer
	enc   *xml.Encoder
	root  xml.StartElement
	state State
	err   error
}

// NewWriter returns a Writer in StateStart.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, enc: xml.NewEncoder(w)}
}

// State returns the current state.
func (w *Writer) State() State { return w.state }

// Open writes the declaration and the root start tag. A root with a
// namespace is written with a default namespace declaration.
func (w *Writer) Open(root xml.Name) error {
	if err := w.expect(StateStart, "Open"); err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, xml.Header); err != nil {
		return w.fail(err)
	}
	w.root = xml.StartElement{Name: root}
	if err := w.enc.EncodeToken(w.root); err != nil {
		return w.fail(err)
	}
	if err := w.enc.Flush(); err != nil {
		return w.fail(err)
	}
	w.state = StateStreaming
	return nil
}

// WriteRecord encodes and flushes one record element.
func (w *Writer) WriteRecord(e Element) error {
	if err := w.expect(StateStreaming, "WriteRecord"); err != nil {
		return err
	}
	if err := e.encode(w.enc); err != nil {
		return w.fail(err)
	}
	if err := w.enc.Flush(); err != nil {
		return w.fail(err)
	}
	return nil
}

// Close writes the root end tag and flushes.
func (w *Writer) Close() error {
	if err := w.expect(StateStreaming, "Close"); err != nil {
		return err
	}
	if err := w.enc.EncodeToken(w.root.End()); err != nil {
		return w.fail(err)
	}
	if err := w.enc.Flush(); err != nil {
		return w.fail(err)
	}
	w.state = StateEnd
	return nil
}

func (w *Writer) expect(want State, op string) error {
	if w.err != nil {
		return w.err
	}
	if w.state != want {
		return fmt.Errorf("feed writer: %s called in state %s", op, w.state)
	}
	return nil
}

// fail makes err sticky. The encoder may hold a partial element, so
// nothing more can be written after a failed write.
func (w *Writer) fail(err error) error {
	w.err = err
	return err
}
