package modules

import (
	"context"
	"io"

	"github.com/juju/errors"

	"northcheck/pkg/checker"
)

// RunLink checks a URL against the link reputation service and writes the
// result to out.
func RunLink(ctx context.Context, client *checker.Client, url string, out io.Writer, opts Options) error {
	progress(out, opts, "🔍 Checking URL: %s", url)

	raw, err := client.Check(ctx, checker.NewURLCheck(url))
	if err != nil {
		return errors.Trace(err)
	}
	return present(out, raw, opts)
}
