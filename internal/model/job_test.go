package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDedupJobs(t *testing.T) {
	t.Parallel()

	t.Run("identical jobs collapse", func(t *testing.T) {
		t.Parallel()

		jobs := []BulkJob{
			{Domain: "example.com", Names: Names{{"John", "Smith"}}},
			{Domain: "example.com", Names: Names{{"John", "Smith"}}},
			{Domain: "example.org"},
			{Domain: "example.org"},
		}

		got := DedupJobs(jobs)
		if len(got) != 2 {
			t.Fatalf("expected 2 jobs, got %d", len(got))
		}
		if got[0].Domain != "example.com" || got[1].Domain != "example.org" {
			t.Errorf("expected first-occurrence order, got %+v", got)
		}
	})

	t.Run("dedup is exact match not semantic", func(t *testing.T) {
		t.Parallel()

		jobs := []BulkJob{
			{Domain: "example.com", Names: Names{{"John Smith"}}},
			{Domain: "example.com", Names: Names{{"john smith"}}},
			{Domain: "example.com", Names: Names{{"John", "Smith"}}},
			{Domain: "Example.com", Names: Names{{"John Smith"}}},
		}

		if got := DedupJobs(jobs); len(got) != 4 {
			t.Errorf("expected all 4 jobs to survive, got %d", len(got))
		}
	})

	t.Run("missing and empty names are the same job", func(t *testing.T) {
		t.Parallel()

		jobs := []BulkJob{
			{Domain: "example.com"},
			{Domain: "example.com", Names: Names{}},
		}

		if got := DedupJobs(jobs); len(got) != 1 {
			t.Errorf("expected 1 job, got %d", len(got))
		}
	})

	t.Run("person boundaries are part of the key", func(t *testing.T) {
		t.Parallel()

		jobs := []BulkJob{
			{Domain: "example.com", Names: Names{{"a", "b"}}},
			{Domain: "example.com", Names: Names{{"a"}, {"b"}}},
		}

		if got := DedupJobs(jobs); len(got) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(got))
		}
	})
}

func TestBulkResultJSON(t *testing.T) {
	t.Parallel()

	result := BulkResult{Domain: "example.com", ValidEmails: []string{}}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	for _, want := range []string{`"domain":"example.com"`, `"names":[]`, `"valid_emails":[]`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
	if strings.Contains(out, "stats") {
		t.Errorf("expected stats to be omitted, got %s", out)
	}
}
