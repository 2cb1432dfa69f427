package checker

import (
	"northcheck/pkg/fault"
	"northcheck/pkg/hashing"
	"northcheck/pkg/validate"
)

// UnknownName is sent when the file name is not known.
const UnknownName = "unknown"

// Request is one reputation check. It is implemented by URLCheck and
// FileCheck only.
type Request interface {
	// Kind is "url" or "file".
	Kind() string
	endpoint(e Endpoints) string
	payload() interface{}
}

// URLCheck asks the link service about a URL.
type URLCheck struct {
	URL string `json:"url"`
}

// FileCheck asks the file service about a SHA-256 digest.
type FileCheck struct {
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
	Name   string `json:"name"`
}

// NewURLCheck builds a URL check.
func NewURLCheck(url string) URLCheck {
	return URLCheck{URL: url}
}

// NewFileCheck builds a file check from a manually supplied digest.
func NewFileCheck(sha256 string, size int64, name string) (FileCheck, error) {
	if err := validate.CheckHash(sha256); err != nil {
		return FileCheck{}, err
	}
	if size < 0 {
		return FileCheck{}, fault.Validationf("Size must be a positive number")
	}
	if name == "" {
		name = UnknownName
	}
	return FileCheck{SHA256: sha256, Size: size, Name: name}, nil
}

// FileCheckFromDigest builds a file check from a locally computed digest.
func FileCheckFromDigest(d hashing.Digest) FileCheck {
	name := d.Name
	if name == "" {
		name = UnknownName
	}
	return FileCheck{SHA256: d.SHA256, Size: d.Size, Name: name}
}

func (URLCheck) Kind() string { return "url" }

func (u URLCheck) endpoint(e Endpoints) string { return e.Link }

func (u URLCheck) payload() interface{} { return u }

func (FileCheck) Kind() string { return "file" }

func (f FileCheck) endpoint(e Endpoints) string { return e.File }

func (f FileCheck) payload() interface{} { return f }
