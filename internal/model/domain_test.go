package model

import (
	"errors"
	"testing"
)

func TestValidateDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain  string
		wantErr bool
	}{
		{domain: "example.com"},
		{domain: "mail.example.co.uk"},
		{domain: "Example.COM"},
		{domain: "example.com."},
		{domain: "bücher.de"},
		{domain: "", wantErr: true},
		{domain: "localhost", wantErr: true},
		{domain: " example.com", wantErr: true},
		{domain: "user@example.com", wantErr: true},
		{domain: "-bad.example.com", wantErr: true},
		{domain: "bad..example.com", wantErr: true},
		{domain: "under_score.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			t.Parallel()

			err := ValidateDomain(tt.domain)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDomain) {
					t.Errorf("expected ErrInvalidDomain for %q, got %v", tt.domain, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for %q: %v", tt.domain, err)
			}
		})
	}
}
