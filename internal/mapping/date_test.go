package mapping

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "iso date passes through normalized",
			input: "1990-05-14",
			want:  "1990-05-14",
		},
		{
			name:  "us slash format",
			input: "5/14/1990",
			want:  "1990-05-14",
		},
		{
			name:  "padded us slash format",
			input: "05/14/1990",
			want:  "1990-05-14",
		},
		{
			name:  "month name format",
			input: "May 14, 1990",
			want:  "1990-05-14",
		},
		{
			name:  "compact format",
			input: "19900514",
			want:  "1990-05-14",
		},
		{
			name:  "day-first dotted format has no layout and passes through",
			input: "14.05.1990",
			want:  "14.05.1990",
		},
		{
			name:  "unparseable text returned unchanged",
			input: "not a date",
			want:  "not a date",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate_TwoDigitYearPivot(t *testing.T) {
	// A 2-digit year far in the future is pulled back a century.
	got := NormalizeDate("5/14/46")
	futureYear := time.Now().Year() + TwoDigitYearPivot
	if 2046 > futureYear {
		if got != "1946-05-14" {
			t.Errorf("NormalizeDate(5/14/46) = %q, want 1946-05-14", got)
		}
	}

	// A recent 2-digit year stays in the current century.
	got = NormalizeDate("5/14/24")
	if got != "2024-05-14" {
		t.Errorf("NormalizeDate(5/14/24) = %q, want 2024-05-14", got)
	}
}
