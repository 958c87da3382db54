// Package intake validates candidate photo batches before any network activity.
// Validation is pure: it screens file type, size, and duplicate filenames
// against the session's existing photo log and reports every rejection.
package intake

import (
	"fmt"
	"strings"
)

// DefaultMaxFileSize is the upload ceiling applied when no ceiling is configured.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Rejection reasons, applied per file with first match wins.
const (
	ReasonInvalidType = "invalid file type"
	ReasonTooLarge    = "file too large"
	ReasonDuplicate   = "duplicate file"
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Candidate describes one file offered for upload.
type Candidate struct {
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
}

// Rejection records a candidate that failed validation and why.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Result partitions a candidate batch into accepted and rejected files.
// An empty Accepted list is a valid outcome; the caller decides whether to proceed.
type Result struct {
	Accepted []Candidate `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

// Summary returns a single aggregated message describing all rejections,
// or an empty string when nothing was rejected.
func (r Result) Summary() string {
	if len(r.Rejected) == 0 {
		return ""
	}

	parts := make([]string, len(r.Rejected))
	for i, rej := range r.Rejected {
		parts[i] = fmt.Sprintf("%s: %s", rej.Filename, rej.Reason)
	}

	return strings.Join(parts, "; ")
}

// Validator screens candidate batches against type, size, and duplicate rules.
type Validator struct {
	maxFileSize int64
}

// New creates a Validator with the given size ceiling.
// Non-positive ceilings fall back to DefaultMaxFileSize.
func New(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize}
}

// Validate partitions candidates into accepted and rejected files.
// Rules are applied per file, first match wins: content type must be an
// allowed image type, size must not exceed the ceiling, and the filename
// must not already exist in the session's photo log. All rejections are
// reported so the caller can surface one aggregated message.
func (v *Validator) Validate(candidates []Candidate, existingFilenames []string) Result {
	existing := make(map[string]struct{}, len(existingFilenames))
	for _, name := range existingFilenames {
		existing[name] = struct{}{}
	}

	result := Result{
		Accepted: make([]Candidate, 0, len(candidates)),
		Rejected: make([]Rejection, 0),
	}

	for _, c := range candidates {
		if reason := v.screen(c, existing); reason != "" {
			result.Rejected = append(result.Rejected, Rejection{
				Filename: c.Filename,
				Reason:   reason,
			})
			continue
		}
		result.Accepted = append(result.Accepted, c)
	}

	return result
}

func (v *Validator) screen(c Candidate, existing map[string]struct{}) string {
	if _, ok := allowedTypes[c.ContentType]; !ok {
		return ReasonInvalidType
	}
	if c.SizeBytes > v.maxFileSize {
		return ReasonTooLarge
	}
	if _, ok := existing[c.Filename]; ok {
		return ReasonDuplicate
	}
	return ""
}
