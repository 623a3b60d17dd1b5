// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/dotlink/pkg/commands"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/ui/display"
)

// Renderer writes one indented JSON document per call
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return &Renderer{encoder: encoder}
}

// RenderResult encodes result. Command results are converted to the display
// model first so per-entry errors are included as text.
func (r *Renderer) RenderResult(result interface{}) error {
	if v, ok := result.(*commands.DispatchResult); ok {
		return r.encoder.Encode(display.FromDispatch(v))
	}
	return r.encoder.Encode(result)
}

// errorDoc is the JSON shape of a failure
type errorDoc struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError encodes err with its code and details
func (r *Renderer) RenderError(err error) error {
	doc := errorDoc{
		Error: display.ErrorText(err),
		Code:  errors.GetErrorCode(err),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		doc.Details = details
	}
	return r.encoder.Encode(doc)
}

// RenderMessage encodes a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
