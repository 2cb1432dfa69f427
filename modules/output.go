package modules

import (
	"encoding/json"
	"fmt"
	"io"

	"northcheck/pkg/render"
)

// Options are the output flags shared by the check commands.
type Options struct {
	// JSON prints the raw service payload only.
	JSON bool
	// Verbose shows API error bodies even outside JSON mode.
	Verbose bool
}

// ShowErrorBody reports whether API error bodies should be printed.
func (o Options) ShowErrorBody() bool {
	return o.JSON || o.Verbose
}

// progress prints a status line in human mode. JSON mode keeps stdout
// limited to the payload.
func progress(out io.Writer, opts Options, format string, args ...interface{}) {
	if opts.JSON {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

func present(out io.Writer, raw json.RawMessage, opts Options) error {
	if opts.JSON {
		return render.JSON(out, raw)
	}
	return render.Summary(out, raw)
}
