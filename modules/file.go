package modules

import (
	"context"
	"io"

	"github.com/juju/errors"

	"northcheck/pkg/checker"
	"northcheck/pkg/hashing"
	"northcheck/pkg/validate"
)

// FileInput is the raw --hash/--size/--name input of the file command.
type FileInput struct {
	Hash        string
	HashPresent bool
	Size        string
	SizePresent bool
	Name        string
}

// RunFile checks a local file. With --hash the file is not read and the
// supplied digest is sent instead; --size is then mandatory.
func RunFile(ctx context.Context, client *checker.Client, path string, in FileInput, out io.Writer, opts Options) error {
	req, err := buildFileCheck(path, in, out, opts)
	if err != nil {
		return err
	}
	return checkFile(ctx, client, req, in.HashPresent, out, opts)
}

func buildFileCheck(path string, in FileInput, out io.Writer, opts Options) (checker.FileCheck, error) {
	if in.HashPresent {
		if err := validate.CheckHash(in.Hash); err != nil {
			return checker.FileCheck{}, err
		}
		size, err := validate.RequiredSize(in.Size, in.SizePresent)
		if err != nil {
			return checker.FileCheck{}, err
		}
		return checker.NewFileCheck(in.Hash, size, in.Name)
	}

	digest, err := hashing.File(path)
	if err != nil {
		return checker.FileCheck{}, errors.Trace(err)
	}
	progress(out, opts, "🔍 Checking file: %s", digest.Path)
	progress(out, opts, "📊 File info: %s (%d bytes, SHA256: %s...)", digest.Name, digest.Size, digest.Short())
	return checker.FileCheckFromDigest(digest), nil
}
