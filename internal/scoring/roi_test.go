package scoring

import (
	"errors"
	"testing"
)

func TestCalculateROI(t *testing.T) {
	tests := []struct {
		name    string
		gained  float64
		spent   float64
		want    float64
		wantErr error
	}{
		{"doubled", 100, 50, 100, nil},
		{"break even", 50, 50, 0, nil},
		{"loss", 25, 100, -75, nil},
		{"zero gain", 0, 50, 0, ErrInvalidInput},
		{"negative gain", -5, 50, 0, ErrInvalidInput},
		{"negative spend", 100, -1, 0, ErrInvalidInput},
		{"zero spend", 100, 0, 0, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateROI(tt.gained, tt.spent)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
