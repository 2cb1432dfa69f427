package render

import (
	"fmt"
	"io"

	"northcheck/pkg/fault"
)

// Failure writes the user-facing message for err. subject names what was
// being checked ("link", "file" or "hash") and is used for unexpected
// failures. showBody adds the API response body.
func Failure(w io.Writer, err error, subject string, showBody bool) {
	fe, ok := fault.As(err)
	if !ok {
		fmt.Fprintf(w, "❌ Error checking %s: %v\n", subject, err)
		return
	}

	switch fe.Kind {
	case fault.Validation:
		fmt.Fprintf(w, "❌ Error: %s\n", fe.Message)
	case fault.NotFound:
		fmt.Fprintf(w, "❌ Error: File not found at %s\n", fe.Path)
		fmt.Fprintln(w, "   Please check the file path and try again.")
	case fault.PermissionDenied:
		fmt.Fprintf(w, "❌ Error: Permission denied accessing %s\n", fe.Path)
		fmt.Fprintln(w, "   Please check file permissions.")
	case fault.IOFailure:
		fmt.Fprintf(w, "❌ Error: Cannot access file at %s\n", fe.Path)
		fmt.Fprintln(w, "   Make sure the file exists and you have read permissions.")
	case fault.Timeout:
		fmt.Fprintln(w, "❌ Request timeout. Please check your internet connection and try again.")
	case fault.Network:
		fmt.Fprintln(w, "❌ Network error. Please check your internet connection.")
	case fault.API:
		fmt.Fprintf(w, "❌ API Error (%d): %s\n", fe.StatusCode, fe.Status)
		if showBody && len(fe.Body) > 0 {
			fmt.Fprintf(w, "Response data: %s\n", Pretty(fe.Body))
		}
	default:
		msg := fe.Message
		if msg == "" && fe.Err != nil {
			msg = fe.Err.Error()
		}
		fmt.Fprintf(w, "❌ Error checking %s: %s\n", subject, msg)
	}
	if fe.Hint != "" {
		fmt.Fprintf(w, "   %s\n", fe.Hint)
	}
}
