// Package models holds the client-side data model: staged file entries,
// notices and decoded submission results.
package models

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a staged entry.
type Status int

const (
	StatusReady Status = iota
	StatusUploading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready for Upload"
	case StatusUploading:
		return "Uploading"
	case StatusSucceeded:
		return "Uploaded"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// OpenFunc yields a fresh reader over an entry's bytes. It is called once per
// submission attempt, so retries re-read the source.
type OpenFunc func() (io.ReadCloser, error)

// Entry is one file waiting in the staging list.
type Entry struct {
	ID     string
	Name   string
	Size   int64
	Path   string
	Status Status
	Reason string

	open OpenFunc
}

// NewEntry wraps an arbitrary byte source.
func NewEntry(name string, size int64, open OpenFunc) *Entry {
	return &Entry{
		ID:     uuid.NewString(),
		Name:   name,
		Size:   size,
		Status: StatusReady,
		open:   open,
	}
}

// NewFileEntry stats path and returns an entry that reads the file lazily.
// Directories and other non-regular files are rejected.
func NewFileEntry(path string) (*Entry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	e := NewEntry(fi.Name(), fi.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	})
	e.Path = path
	return e, nil
}

// Open returns a reader over the entry content.
func (e *Entry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, fmt.Errorf("entry %q has no content", e.Name)
	}
	return e.open()
}

// MarkFailed switches the entry to StatusFailed with reason.
func (e *Entry) MarkFailed(reason string) {
	e.Status = StatusFailed
	e.Reason = reason
}
