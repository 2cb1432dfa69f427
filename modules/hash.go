package modules

import (
	"context"
	"io"

	"github.com/juju/errors"

	"northcheck/pkg/checker"
	"northcheck/pkg/fault"
	"northcheck/pkg/validate"
)

// HashInput is the raw --size/--name input of the hash command.
type HashInput struct {
	Size        string
	SizePresent bool
	Name        string
}

// RunHash checks a SHA-256 digest against the file reputation service
// without touching the local filesystem. The size is optional; an absent
// or empty --size sends 0.
func RunHash(ctx context.Context, client *checker.Client, sha256 string, in HashInput, out io.Writer, opts Options) error {
	if err := validate.CheckHash(sha256); err != nil {
		if fe, ok := fault.As(err); ok {
			fe.WithHint(validate.HashExample)
		}
		return err
	}
	size, err := validate.OptionalSize(in.Size, in.SizePresent && in.Size != "")
	if err != nil {
		return err
	}
	req, err := checker.NewFileCheck(sha256, size, in.Name)
	if err != nil {
		return err
	}
	return checkFile(ctx, client, req, req.Size > 0, out, opts)
}

// checkFile sends a prepared file check and presents the result.
func checkFile(ctx context.Context, client *checker.Client, req checker.FileCheck, showInfo bool, out io.Writer, opts Options) error {
	progress(out, opts, "🔍 Checking hash: %s", req.SHA256)
	if showInfo {
		progress(out, opts, "📊 File info: %s (%d bytes)", req.Name, req.Size)
	}

	raw, err := client.Check(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	return present(out, raw, opts)
}
