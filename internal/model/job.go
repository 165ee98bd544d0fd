package model

// BulkJob is one unit of bulk work: a domain and optional name data.
//
// Two jobs are duplicates when domain and names match exactly, fragment by
// fragment. "john smith" and "John Smith" are different jobs even though
// they generate the same candidates.
type BulkJob struct {
	// Domain is the mail domain to check.
	Domain string `json:"domain" yaml:"domain"`

	// Names is the optional name data. When empty, role prefixes are probed.
	Names Names `json:"names,omitempty" yaml:"names,omitempty"`
}

// Key returns the exact-match deduplication key of the job.
// A missing names list and an empty one produce the same key.
func (j BulkJob) Key() string {
	return j.Domain + "\x1d" + j.Names.key()
}

// DedupJobs removes exact duplicates, keeping the first occurrence of each
// job and the relative order of the survivors.
func DedupJobs(jobs []BulkJob) []BulkJob {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]BulkJob, 0, len(jobs))
	for _, job := range jobs {
		k := job.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, job)
	}
	return out
}

// BulkResult is the aggregated output of the single-domain pipeline for one
// job.
type BulkResult struct {
	// Domain is the checked domain, exactly as supplied.
	Domain string `json:"domain"`

	// Names echoes the job's name data.
	Names Names `json:"names"`

	// ValidEmails lists the addresses judged deliverable. The order carries
	// no meaning. Never nil, so it encodes as [] rather than null.
	ValidEmails []string `json:"valid_emails"` //nolint:tagliatelle // snake_case is the public record format

	// Stats summarizes the check. Nil when no statistics were collected.
	Stats *Stats `json:"stats,omitempty"`
}
