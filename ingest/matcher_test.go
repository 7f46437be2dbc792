package ingest

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "question mark parameter",
			text:   "https://example.com/watch?v=XYZ123",
			want:   "XYZ123",
			wantOK: true,
		},
		{
			name:   "ampersand parameter",
			text:   "https://example.com/watch?list=PL1&v=XYZ123",
			want:   "XYZ123",
			wantOK: true,
		},
		{
			name:   "id with hyphen and underscore",
			text:   "check this https://example.com/watch?v=a-b_C9",
			want:   "a-b_C9",
			wantOK: true,
		},
		{
			name:   "surrounding chat text",
			text:   "check this https://example.com/watch?v=abc123 so good",
			want:   "abc123",
			wantOK: true,
		},
		{
			name:   "value stops at disallowed character",
			text:   "https://example.com/watch?v=abc123&t=42",
			want:   "abc123",
			wantOK: true,
		},
		{
			name: "no v parameter",
			text: "https://example.com/some/page?id=42",
		},
		{
			name: "bare v without separator",
			text: "v=abc123 is not a url parameter",
		},
		{
			name: "plain text",
			text: "good morning everyone",
		},
		{
			name: "empty string",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
