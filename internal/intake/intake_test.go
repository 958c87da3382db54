package intake_test

import (
	"strings"
	"testing"

	"github.com/atelier-studio/provenance/internal/intake"
)

func TestValidateScreening(t *testing.T) {
	v := intake.New(1024)

	tests := []struct {
		name       string
		candidate  intake.Candidate
		existing   []string
		wantReason string
	}{
		{
			name:      "accepts jpeg under ceiling",
			candidate: intake.Candidate{Filename: "a.jpg", SizeBytes: 512, ContentType: "image/jpeg"},
		},
		{
			name:      "accepts png",
			candidate: intake.Candidate{Filename: "b.png", SizeBytes: 100, ContentType: "image/png"},
		},
		{
			name:      "accepts webp",
			candidate: intake.Candidate{Filename: "c.webp", SizeBytes: 100, ContentType: "image/webp"},
		},
		{
			name:      "accepts gif",
			candidate: intake.Candidate{Filename: "d.gif", SizeBytes: 100, ContentType: "image/gif"},
		},
		{
			name:       "rejects non-image type",
			candidate:  intake.Candidate{Filename: "doc.pdf", SizeBytes: 100, ContentType: "application/pdf"},
			wantReason: intake.ReasonInvalidType,
		},
		{
			name:       "rejects oversized file",
			candidate:  intake.Candidate{Filename: "big.jpg", SizeBytes: 2048, ContentType: "image/jpeg"},
			wantReason: intake.ReasonTooLarge,
		},
		{
			name:      "accepts file at exact ceiling",
			candidate: intake.Candidate{Filename: "edge.jpg", SizeBytes: 1024, ContentType: "image/jpeg"},
		},
		{
			name:       "rejects duplicate of existing photo",
			candidate:  intake.Candidate{Filename: "step1.jpg", SizeBytes: 100, ContentType: "image/jpeg"},
			existing:   []string{"step1.jpg"},
			wantReason: intake.ReasonDuplicate,
		},
		{
			name:       "type check precedes size check",
			candidate:  intake.Candidate{Filename: "big.txt", SizeBytes: 2048, ContentType: "text/plain"},
			wantReason: intake.ReasonInvalidType,
		},
		{
			name:       "size check precedes duplicate check",
			candidate:  intake.Candidate{Filename: "step1.jpg", SizeBytes: 2048, ContentType: "image/jpeg"},
			existing:   []string{"step1.jpg"},
			wantReason: intake.ReasonTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate([]intake.Candidate{tt.candidate}, tt.existing)

			if tt.wantReason == "" {
				if len(result.Accepted) != 1 || len(result.Rejected) != 0 {
					t.Fatalf("expected acceptance, got accepted=%d rejected=%v", len(result.Accepted), result.Rejected)
				}
				return
			}

			if len(result.Rejected) != 1 {
				t.Fatalf("expected one rejection, got %v", result)
			}
			if result.Rejected[0].Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", result.Rejected[0].Reason, tt.wantReason)
			}
			if result.Rejected[0].Filename != tt.candidate.Filename {
				t.Errorf("filename = %q, want %q", result.Rejected[0].Filename, tt.candidate.Filename)
			}
		})
	}
}

func TestValidatePartitionsMixedBatch(t *testing.T) {
	v := intake.New(1000)

	candidates := []intake.Candidate{
		{Filename: "ok1.jpg", SizeBytes: 500, ContentType: "image/jpeg"},
		{Filename: "notes.txt", SizeBytes: 10, ContentType: "text/plain"},
		{Filename: "huge.png", SizeBytes: 5000, ContentType: "image/png"},
		{Filename: "existing.jpg", SizeBytes: 100, ContentType: "image/jpeg"},
		{Filename: "ok2.webp", SizeBytes: 200, ContentType: "image/webp"},
	}

	result := v.Validate(candidates, []string{"existing.jpg"})

	if len(result.Accepted) != 2 {
		t.Fatalf("accepted = %d, want 2", len(result.Accepted))
	}
	if result.Accepted[0].Filename != "ok1.jpg" || result.Accepted[1].Filename != "ok2.webp" {
		t.Errorf("accepted order not preserved: %v", result.Accepted)
	}
	if len(result.Rejected) != 3 {
		t.Fatalf("rejected = %d, want 3", len(result.Rejected))
	}

	summary := result.Summary()
	for _, want := range []string{
		"notes.txt: " + intake.ReasonInvalidType,
		"huge.png: " + intake.ReasonTooLarge,
		"existing.jpg: " + intake.ReasonDuplicate,
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary %q missing %q", summary, want)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	v := intake.New(1000)

	candidates := []intake.Candidate{
		{Filename: "a.jpg", SizeBytes: 100, ContentType: "image/jpeg"},
		{Filename: "b.txt", SizeBytes: 100, ContentType: "text/plain"},
	}
	existing := []string{"c.jpg"}

	first := v.Validate(candidates, existing)
	second := v.Validate(candidates, existing)

	if len(first.Accepted) != len(second.Accepted) || len(first.Rejected) != len(second.Rejected) {
		t.Fatalf("repeat validation diverged: %v vs %v", first, second)
	}
	if first.Summary() != second.Summary() {
		t.Errorf("summaries diverged: %q vs %q", first.Summary(), second.Summary())
	}
}

func TestSummaryEmptyWhenAllAccepted(t *testing.T) {
	v := intake.New(0)

	result := v.Validate([]intake.Candidate{
		{Filename: "a.jpg", SizeBytes: 100, ContentType: "image/jpeg"},
	}, nil)

	if got := result.Summary(); got != "" {
		t.Errorf("summary = %q, want empty", got)
	}
}

func TestNewAppliesDefaultCeiling(t *testing.T) {
	v := intake.New(0)

	result := v.Validate([]intake.Candidate{
		{Filename: "a.jpg", SizeBytes: intake.DefaultMaxFileSize + 1, ContentType: "image/jpeg"},
		{Filename: "b.jpg", SizeBytes: intake.DefaultMaxFileSize, ContentType: "image/jpeg"},
	}, nil)

	if len(result.Accepted) != 1 || result.Accepted[0].Filename != "b.jpg" {
		t.Errorf("default ceiling not applied: %v", result)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Reason != intake.ReasonTooLarge {
		t.Errorf("oversized file not rejected: %v", result.Rejected)
	}
}
