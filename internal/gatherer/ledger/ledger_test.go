package ledger

import (
	"testing"

	"github.com/matchforge/gatherer/internal/gatherer/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		existing  *models.Match
		requested models.Quality
		want      Decision
	}{
		{
			name:      "unseen code is a new record",
			existing:  nil,
			requested: models.QualityLow,
			want:      NewRecord,
		},
		{
			name:      "known at lower quality upgrades",
			existing:  &models.Match{AnalyzedQuality: models.QualityLow},
			requested: models.QualityHigh,
			want:      Upgrade,
		},
		{
			name:      "known at same quality skips",
			existing:  &models.Match{AnalyzedQuality: models.QualityMedium},
			requested: models.QualityMedium,
			want:      Skip,
		},
		{
			name:      "known at higher quality skips",
			existing:  &models.Match{AnalyzedQuality: models.QualityHigh},
			requested: models.QualityLow,
			want:      Skip,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.existing, tc.requested); got != tc.want {
				t.Fatalf("Decide() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecide_QualityMonotonic(t *testing.T) {
	// Whatever order requests arrive in, acting on the decisions never
	// lowers the stored quality.
	match := &models.Match{AnalyzedQuality: models.QualityLow}
	order := []models.Quality{models.QualityHigh, models.QualityLow, models.QualityMedium}

	for _, q := range order {
		if Decide(match, q) == Upgrade {
			match.AnalyzedQuality = q
		}
	}

	if match.AnalyzedQuality != models.QualityHigh {
		t.Fatalf("quality regressed to %v", match.AnalyzedQuality)
	}
}
