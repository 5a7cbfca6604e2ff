package util

import (
	"strings"
	"testing"
)

func TestSHA256ReaderMatchesBytes(t *testing.T) {
	payload := []byte("evidence bytes")

	fromBytes := SHA256Hex(payload)
	fromReader, err := SHA256Reader(strings.NewReader(string(payload)))
	if err != nil {
		t.Fatalf("SHA256Reader: %v", err)
	}

	if fromBytes != fromReader {
		t.Fatalf("digest mismatch: %s vs %s", fromBytes, fromReader)
	}
	if len(fromBytes) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(fromBytes))
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "scene.jpg", want: "scene.jpg"},
		{name: "slashes", input: "a/b.jpg", want: "a_b.jpg"},
		{name: "traversal", input: "../etc/passwd", wantErr: true},
		{name: "empty", input: "  ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
