package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/weft/internal/model"
)

// Renderer writes LogRecord values to an output stream.
type Renderer interface {
	Render(record model.LogRecord) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow

// TextRenderer prints each record as a yellow header line followed by
// the indented message body.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(record model.LogRecord) error {
	header := fmt.Sprintf("%s@%s -- [%s]",
		record.Service,
		record.Hostname,
		record.Time().Format("2006-01-02 15:04:05"))

	_, err := fmt.Fprintf(r.w, "%s\n\t%s\n\n", styleHeader.Render(header), record.Message)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(record model.LogRecord) error {
	return r.enc.Encode(record)
}
