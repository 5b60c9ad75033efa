package scoring

// Country strings that receive the domestic-mainstream penalty.
const (
	countryUSA     = "USA"
	countryUSAFull = "United States of America"
)

var countryWeights = map[string]int{
	"France":         15,
	"Italy":          15,
	"Japan":          15,
	"Iran":           15,
	"South Korea":    15,
	"Germany":        12,
	"Russia":         12,
	"Sweden":         12,
	"Poland":         12,
	"Taiwan":         12,
	"Spain":          10,
	"China":          10,
	"Brazil":         10,
	"Mexico":         10,
	"Argentina":      10,
	"United Kingdom": 8,
	"India":          8,
}

var arthouseGenres = map[string]int{
	"Drama":       10,
	"Documentary": 8,
	"History":     8,
	"War":         6,
	"Music":       6,
	"Romance":     4,
}

var mainstreamGenres = map[string]int{
	"Action":          -10,
	"Adventure":       -10,
	"Science Fiction": -10,
	"Fantasy":         -8,
	"Animation":       -5,
	"Comedy":          -3,
}

var tagWeights = map[string]int{
	"contemplative": 5,
	"existential":   5,
	"slow":          5,
	"austere":       5,
	"poetic":        4,
	"minimalist":    4,
	"dreamlike":     3,
	"surreal":       3,
	"enigmatic":     3,
	"lyrical":       3,
	"fragmented":    3,
	"psychological": 2,
	"intimate":      2,
	"melancholic":   2,
}

// Band limits.
const (
	classicMinAge      = 25
	classicMinRating   = 7.7
	masterpieceRating  = 8.2
	masterpieceFloor   = 85
	legacyPopularity   = 100
	legacyBonus        = 10
	genreMin           = -10
	genreMax           = 20
	tagMax             = 20
	usaPenalty         = -10
	usaWaiverRating    = 7.8
	unlistedCountry    = 8
	auteurPoints       = 15
	minScore, maxScore = 0, 100
)

// IsUSA reports whether country is one of the two accepted USA spellings.
func IsUSA(country string) bool {
	return country == countryUSA || country == countryUSAFull
}
