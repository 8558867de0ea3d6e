package html

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell. The CSRF script runs last so it sees
// every form body rendered.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, CSRFFormScript()+`</body></html>`)
		return err
	})
}
