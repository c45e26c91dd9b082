package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

func TestWriterDocument(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Open(xml.Name{Space: PeopleNamespace, Local: "records"}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if w.State() != StateStreaming {
		t.Errorf("expected streaming state, got %s", w.State())
	}
	rec := Element{Tag: "record", Fields: []Field{
		nameField("[LastName]", "Þorgerðr & ☈"),
		nameField("[Generic05]", ""),
	}}
	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if w.State() != StateEnd {
		t.Errorf("expected end state, got %s", w.State())
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<records xmlns="http://www.symplectic.co.uk/hrimporter">` +
		`<record><field name="[LastName]">Þorgerðr &amp; ☈</field><field name="[Generic05]"></field></record>` +
		`</records>`
	if buf.String() != want {
		t.Errorf("unexpected document\nexpected: %s\ngot:      %s", want, buf.String())
	}
}

func TestWriterFieldText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "<f></f>"},
		{"newline", "line one\nline two", "<f>line one\nline two</f>"},
		{"tab and carriage return", "a\tb\r\n", "<f>a&#x9;b&#xD;\n</f>"},
		{"quotes", `O'Brien "Bob"`, "<f>O&#39;Brien &#34;Bob&#34;</f>"},
		{"markup", "<b> & </b>", "<f>&lt;b&gt; &amp; &lt;/b&gt;</f>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := xml.NewEncoder(&buf)
			rec := Element{Tag: "r", Fields: []Field{{Tag: "f", Text: tc.text}}}
			if err := rec.encode(enc); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if err := enc.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			want := "<r>" + tc.want + "</r>"
			if buf.String() != want {
				t.Errorf("expected %q, got %q", want, buf.String())
			}
		})
	}
}

func TestWriterFlushesEachRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Open(xml.Name{Local: "ARTICLES"}); err != nil {
		t.Fatal(err)
	}
	afterOpen := buf.Len()
	if !strings.HasSuffix(buf.String(), "<ARTICLES>") {
		t.Errorf("expected root start tag to be flushed, got %q", buf.String())
	}

	if err := w.WriteRecord(Element{Tag: "ARTICLE", Fields: []Field{{Tag: "DOI", Text: "10.1/x"}}}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String()[afterOpen:]; got != "<ARTICLE><DOI>10.1/x</DOI></ARTICLE>" {
		t.Errorf("expected record bytes before Close, got %q", got)
	}
}

func TestWriterStateMisuse(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *Writer) error
	}{
		{"record before open", func(w *Writer) error {
			return w.WriteRecord(Element{Tag: "ARTICLE"})
		}},
		{"close before open", func(w *Writer) error { return w.Close() }},
		{"open twice", func(w *Writer) error {
			w.Open(xml.Name{Local: "ARTICLES"})
			return w.Open(xml.Name{Local: "ARTICLES"})
		}},
		{"record after close", func(w *Writer) error {
			w.Open(xml.Name{Local: "ARTICLES"})
			w.Close()
			return w.WriteRecord(Element{Tag: "ARTICLE"})
		}},
		{"close twice", func(w *Writer) error {
			w.Open(xml.Name{Local: "ARTICLES"})
			w.Close()
			return w.Close()
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(NewWriter(&bytes.Buffer{}))
			if err == nil || !strings.Contains(err.Error(), "called in state") {
				t.Errorf("expected state error, got %v", err)
			}
		})
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriterErrorIsSticky(t *testing.T) {
	boom := errors.New("broken pipe")
	w := NewWriter(failingWriter{err: boom})
	if err := w.Open(xml.Name{Local: "ARTICLES"}); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if err := w.WriteRecord(Element{Tag: "ARTICLE"}); !errors.Is(err, boom) {
		t.Errorf("expected sticky error, got %v", err)
	}
}
