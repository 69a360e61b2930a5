package render

import (
	"fmt"
	"io"
)

// Page writes the full HTML document for v.
func (r *Renderer) Page(w io.Writer, v View) error {
	if err := r.page.Execute(w, v); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
