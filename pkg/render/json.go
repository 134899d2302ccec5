package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer serialises the page view model.
type JSONRenderer struct {
	indent string
}

// NewJSONRenderer returns a renderer emitting JSON, indented when indent is
// not empty.
func NewJSONRenderer(indent string) *JSONRenderer {
	return &JSONRenderer{indent: indent}
}

var _ Renderer = (*JSONRenderer)(nil)

func (r *JSONRenderer) Name() string        { return "json" }
func (r *JSONRenderer) ContentType() string { return "application/json" }

// Render encodes page.
func (r *JSONRenderer) Render(_ context.Context, page Page) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(page, "", r.indent)
	} else {
		out, err = json.Marshal(page)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode json page: %w", err)
	}
	return out, nil
}
