package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"northcheck/pkg/fault"
)

// Digest describes a hashed local file.
type Digest struct {
	Path   string
	Name   string
	SHA256 string
	Size   int64
}

// Short returns the first 8 characters of the digest for display.
func (d Digest) Short() string {
	if len(d.SHA256) < 8 {
		return d.SHA256
	}
	return d.SHA256[:8]
}

// Bytes returns the lowercase hex SHA-256 of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Resolve returns the absolute, cleaned form of path.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Annotatef(err, "resolve %s", path)
	}
	return filepath.Clean(abs), nil
}

// File reads the file at path and returns its digest, size and base name.
// The size comes from file metadata taken after hashing.
func File(path string) (Digest, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return Digest{}, fault.File(fault.IOFailure, path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Digest{}, classify(resolved, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return Digest{}, classify(resolved, err)
	}

	d := Digest{
		Path:   resolved,
		Name:   filepath.Base(resolved),
		SHA256: Bytes(data),
		Size:   info.Size(),
	}
	if d.Size != int64(len(data)) {
		log.Warnf("file %s changed while hashing: hashed %d bytes, stat reports %d", resolved, len(data), d.Size)
	}
	log.Debugf("hashed %s: sha256=%s size=%d", d.Path, d.SHA256, d.Size)
	return d, nil
}

func classify(path string, err error) *fault.Error {
	switch {
	case os.IsNotExist(err):
		return fault.File(fault.NotFound, path, err)
	case os.IsPermission(err):
		return fault.File(fault.PermissionDenied, path, err)
	default:
		return fault.File(fault.IOFailure, path, fmt.Errorf("read %s: %w", path, err))
	}
}
