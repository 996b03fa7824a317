package engine

import "testing"

func TestParseIntakeToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    IntakeRecord
		wantErr bool
	}{
		{
			name:  "canonical token",
			token: "ROSES|RED|200|STEMS",
			want:  IntakeRecord{FlowerType: "Roses", Color: "Red", Quantity: 200, Unit: "stems"},
		},
		{
			name:  "mixed case with spaces",
			token: " tulips | yellow | 150 | Stems ",
			want:  IntakeRecord{FlowerType: "Tulips", Color: "Yellow", Quantity: 150, Unit: "stems"},
		},
		{
			name:    "too few fields",
			token:   "ROSES|RED|200",
			wantErr: true,
		},
		{
			name:    "too many fields",
			token:   "ROSES|RED|200|STEMS|EXTRA",
			wantErr: true,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "non-numeric quantity",
			token:   "ROSES|RED|many|STEMS",
			wantErr: true,
		},
		{
			name:    "zero quantity",
			token:   "ROSES|RED|0|STEMS",
			wantErr: true,
		},
		{
			name:    "negative quantity",
			token:   "ROSES|RED|-5|STEMS",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseIntakeToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tt.token, rec)
				}
				if _, ok := err.(*MalformedInputError); !ok {
					t.Errorf("expected MalformedInputError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *rec != tt.want {
				t.Errorf("got %+v, want %+v", *rec, tt.want)
			}
		})
	}
}
