package ranking

import "slices"

var defaultCurated = []string{
	"Mulholland Drive",
	"The Tree of Life",
	"Persona",
	"Portrait of a Lady on Fire",
	"Mirror",
	"2001: A Space Odyssey",
	"In the Mood for Love",
	"Jeanne Dielman, 23, quai du Commerce, 1080 Bruxelles",
	"Yi Yi",
	"Tokyo Story",
	"The 400 Blows",
	"La Dolce Vita",
	"Andrei Rublev",
	"The Spirit of the Beehive",
	"Close-Up",
	"A Separation",
	"The Seventh Seal",
	"L'Avventura",
	"Paris, Texas",
	"Three Colors: Blue",
	"Uncle Boonmee Who Can Recall His Past Lives",
	"Beau Travail",
	"Satantango",
	"Moonlight",
	"A Brighter Summer Day",
}

// DefaultCuratedTitles returns the editorial front page, in display order.
func DefaultCuratedTitles() []string {
	return slices.Clone(defaultCurated)
}
