package scoring

import (
	"math"

	"github.com/okian/arthouse/internal/domain/model"
)

// IsCertifiedClassic reports whether the film is older than 25 years at
// currentYear and rated above 7.7.
func IsCertifiedClassic(f model.Film, currentYear int) bool {
	age := currentYear - f.Year
	return age > classicMinAge && num(f.VoteAverage) > classicMinRating
}

// IsCriticalMasterpiece reports whether the film is rated above 8.2.
func IsCriticalMasterpiece(f model.Film) bool {
	return num(f.VoteAverage) > masterpieceRating
}

// IsAuteurDirected reports whether any credited director matches the auteur registry.
func IsAuteurDirected(f model.Film) bool {
	for _, d := range f.Directors {
		if _, ok := MatchAuteur(d); ok {
			return true
		}
	}
	return false
}

// num maps non-finite values to zero.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
