package scoring

import (
	"github.com/okian/arthouse/internal/domain/model"
)

// Breakdown itemizes the sub-scores applied to a film.
type Breakdown struct {
	Popularity       int  `json:"popularity"`
	VotePattern      int  `json:"votePattern"`
	Genre            int  `json:"genre"`
	Tags             int  `json:"tags"`
	Country          int  `json:"country"`
	AuteurBonus      int  `json:"auteurBonus"`
	MasterpieceFloor bool `json:"masterpieceFloor"`
	IsClassic        bool `json:"isClassic"`
	IsAuteur         bool `json:"isAuteur"`
	Total            int  `json:"total"`
}

// GetScoreBreakdown computes the itemized arthouse score of f as of currentYear.
func GetScoreBreakdown(f model.Film, currentYear int) Breakdown {
	b := Breakdown{
		IsClassic:        IsCertifiedClassic(f, currentYear),
		MasterpieceFloor: IsCriticalMasterpiece(f),
		IsAuteur:         IsAuteurDirected(f),
	}
	voteAverage := num(f.VoteAverage)
	popularity := num(f.Popularity)

	b.Popularity = popularityScore(popularity, b.IsClassic)
	b.VotePattern = votePatternScore(voteAverage, f.VoteCount)
	b.Genre = genreScore(f.Genres, b.IsClassic || b.IsAuteur)
	b.Tags = tagScore(f.DerivedTags)
	b.Country = countryScore(f.Country, voteAverage)
	if b.IsAuteur {
		b.AuteurBonus = auteurPoints
	}

	score := 0
	if b.MasterpieceFloor {
		score = max(score, masterpieceFloor)
	}
	score += b.Popularity + b.VotePattern + b.Genre + b.Tags + b.Country + b.AuteurBonus
	if b.MasterpieceFloor {
		score = max(masterpieceFloor, score)
	}
	b.Total = max(minScore, min(maxScore, score))
	return b
}

// CalculateArthouseScore returns the arthouse score of f in [0, 100] as of currentYear.
func CalculateArthouseScore(f model.Film, currentYear int) int {
	return GetScoreBreakdown(f, currentYear).Total
}

func popularityScore(popularity float64, classic bool) int {
	switch {
	case classic && popularity > legacyPopularity:
		return legacyBonus
	case popularity < 20:
		return 25
	case popularity < 50:
		return 15
	case popularity < 100:
		return 5
	default:
		return 0
	}
}

func votePatternScore(voteAverage float64, voteCount int) int {
	switch {
	case voteAverage >= 7.5 && voteCount < 5000:
		return 20
	case voteAverage >= 7.0 && voteCount < 10000:
		return 15
	case voteAverage >= 6.5:
		return 10
	case voteAverage >= 6.0:
		return 5
	default:
		return 0
	}
}

// genreScore sums genre weights; exempt films skip mainstream penalties.
func genreScore(genres []string, exempt bool) int {
	total := 0
	for _, g := range genres {
		total += arthouseGenres[g]
		if !exempt {
			total += mainstreamGenres[g]
		}
	}
	return max(genreMin, min(genreMax, total))
}

func tagScore(tags []string) int {
	total := 0
	for _, t := range tags {
		total += tagWeights[t]
	}
	return min(tagMax, total)
}

func countryScore(country string, voteAverage float64) int {
	switch {
	case IsUSA(country):
		if voteAverage > usaWaiverRating {
			return 0
		}
		return usaPenalty
	case country == "":
		return 0
	}
	if w, ok := countryWeights[country]; ok {
		return w
	}
	return unlistedCountry
}
