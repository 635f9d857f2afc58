package copilot

import (
	"encoding/json"
	"fmt"
	"io"

	"meeting-copilot/internal/retrieval"
)

// SourcesDelimiter separates the streamed answer text from the trailing
// citation sidecar on the wire. Model output is assumed not to contain it.
const SourcesDelimiter = "\n\n---SOURCES---\n"

// FrameType tags the two kinds of frames an answer stream can carry.
type FrameType string

const (
	// FrameText is a raw answer text chunk.
	FrameText FrameType = "text"
	// FrameCitations is the citation sidecar, emitted at most once at the end.
	FrameCitations FrameType = "citations"
)

// Frame is the internal unit of an answer stream. Keeping frames typed lets
// the pipeline and its tests work without parsing the wire format; only the
// transport boundary serializes frames to bytes.
type Frame struct {
	Type              FrameType
	Text              string
	Citations         []retrieval.Citation
	ExtractedQuestion string
}

// FrameWriter receives frames as the pipeline produces them.
type FrameWriter interface {
	WriteFrame(frame Frame) error
}

// FrameWriterFunc adapts a function to the FrameWriter interface.
type FrameWriterFunc func(frame Frame) error

// WriteFrame calls f.
func (f FrameWriterFunc) WriteFrame(frame Frame) error {
	return f(frame)
}

// citationSidecar is the wire shape of the citation frame.
type citationSidecar struct {
	Type              string               `json:"type"`
	Citations         []retrieval.Citation `json:"citations"`
	ExtractedQuestion string               `json:"extractedQuestion,omitempty"`
}

// WireWriter serializes frames to the delimiter-based textual wire format:
// text frames pass through verbatim, the citation frame becomes the
// ---SOURCES--- delimiter followed by one JSON line. An optional flush
// callback runs after every frame so transports can forward chunks
// immediately.
type WireWriter struct {
	w     io.Writer
	flush func()
}

var _ FrameWriter = (*WireWriter)(nil)

// NewWireWriter creates a WireWriter over w. flush may be nil.
func NewWireWriter(w io.Writer, flush func()) *WireWriter {
	return &WireWriter{w: w, flush: flush}
}

// WriteFrame serializes one frame to the underlying writer.
func (ww *WireWriter) WriteFrame(frame Frame) error {
	switch frame.Type {
	case FrameText:
		if _, err := io.WriteString(ww.w, frame.Text); err != nil {
			return err
		}
	case FrameCitations:
		payload, err := json.Marshal(citationSidecar{
			Type:              "citations",
			Citations:         frame.Citations,
			ExtractedQuestion: frame.ExtractedQuestion,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal citations: %w", err)
		}
		if _, err := fmt.Fprintf(ww.w, "%s%s\n", SourcesDelimiter, payload); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown frame type %q", frame.Type)
	}

	if ww.flush != nil {
		ww.flush()
	}
	return nil
}
