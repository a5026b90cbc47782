package contact

import "testing"

func TestValidateStage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  BorrowerStage
	}{
		{
			name:  "exact active lead",
			input: "Active Lead",
			want:  StageActiveLead,
		},
		{
			name:  "exact business partner only",
			input: "Business Partner Only",
			want:  StageBusinessPartnerOnly,
		},
		{
			name:  "exact prospect",
			input: "Prospect",
			want:  StageProspect,
		},
		{
			name:  "exact client",
			input: "Client",
			want:  StageClient,
		},
		{
			name:  "empty falls back to default",
			input: "",
			want:  StageProspect,
		},
		{
			name:  "wrong case falls back to default",
			input: "active lead",
			want:  StageProspect,
		},
		{
			name:  "trailing whitespace falls back to default",
			input: "Client ",
			want:  StageProspect,
		},
		{
			name:  "arbitrary text falls back to default",
			input: "Hot Lead",
			want:  StageProspect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateStage(tt.input); got != tt.want {
				t.Errorf("ValidateStage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordValues_MatchesColumns(t *testing.T) {
	r := Record{
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane@example.com",
		BorrowerStage: StageClient,
	}

	vals := r.Values()
	if len(vals) != len(Columns) {
		t.Fatalf("Values() returned %d cells, want %d (one per column)", len(vals), len(Columns))
	}
	if vals[0] != "Jane" || vals[1] != "Doe" || vals[2] != "jane@example.com" {
		t.Errorf("Values() = %v, name/email cells out of order", vals[:3])
	}
	if vals[9] != "Client" {
		t.Errorf("Values()[9] = %q, want stage cell %q", vals[9], "Client")
	}
}
