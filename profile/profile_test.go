package profile

import (
	"errors"
	"testing"
)

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrUnsupportedPlatform", ErrUnsupportedPlatform, "unsupported platform"},
		{"ErrProfileNotFound", ErrProfileNotFound, "profile not found"},
		{"ErrRateLimited", ErrRateLimited, "rate limited"},
		{"ErrAuthRequired", ErrAuthRequired, "authentication required"},
		{"ErrNoCookies", ErrNoCookies, "no cookies available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("message = %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"twitter", Twitter, false},
		{"LinkedIn", LinkedIn, false},
		{" github ", GitHub, false},
		{"GITHUB", GitHub, false},
		{"mastodon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlatform(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
