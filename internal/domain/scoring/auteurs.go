package scoring

import "strings"

// auteurs is the registry of verified auteur directors, grouped by national cinema.
var auteurs = [...]string{
	// Japan
	"Akira Kurosawa", "Yasujirō Ozu", "Kenji Mizoguchi", "Masaki Kobayashi",
	"Kon Ichikawa", "Nagisa Ōshima", "Hirokazu Kore-eda", "Takeshi Kitano",

	// Russia/USSR
	"Andrei Tarkovsky", "Sergei Eisenstein", "Dziga Vertov", "Andrei Konchalovsky",

	// France
	"Jean-Luc Godard", "François Truffaut", "Agnès Varda", "Jean Renoir",
	"Robert Bresson", "Alain Resnais", "Jacques Tati", "Louis Malle",
	"Éric Rohmer", "Jacques Rivette", "Claire Denis", "Leos Carax",

	// Italy
	"Federico Fellini", "Michelangelo Antonioni", "Pier Paolo Pasolini",
	"Luchino Visconti", "Vittorio De Sica", "Roberto Rossellini",
	"Bernardo Bertolucci", "Paolo Sorrentino",

	// Sweden
	"Ingmar Bergman", "Roy Andersson",

	// Germany
	"Rainer Werner Fassbinder", "Werner Herzog", "Wim Wenders",
	"Volker Schlöndorff", "Florian Henckel von Donnersmarck",

	// USA
	"Stanley Kubrick", "Terrence Malick", "Paul Thomas Anderson",
	"David Lynch", "Darren Aronofsky", "Wes Anderson", "Martin Scorsese",
	"Francis Ford Coppola", "Orson Welles", "Charlie Chaplin",
	"Billy Wilder", "Robert Altman", "Jim Jarmusch", "Kelly Reichardt",

	// UK
	"Alfred Hitchcock", "Mike Leigh", "Ken Loach", "Lynne Ramsay",

	// Hong Kong/China/Taiwan
	"Wong Kar-wai", "Tsai Ming-liang", "Edward Yang", "Hou Hsiao-hsien",
	"Jia Zhangke", "Zhang Yimou", "Chen Kaige",

	// Iran
	"Abbas Kiarostami", "Asghar Farhadi", "Jafar Panahi",

	// South Korea
	"Bong Joon-ho", "Park Chan-wook", "Hong Sang-soo", "Lee Chang-dong",
	"Kim Ki-duk",

	// Poland
	"Krzysztof Kieślowski", "Andrzej Wajda", "Paweł Pawlikowski",

	// Spain/Latin America
	"Pedro Almodóvar", "Luis Buñuel", "Alejandro González Iñárritu",
	"Alfonso Cuarón", "Guillermo del Toro", "Carlos Reygadas",

	// Other
	"Michael Haneke", "Lars von Trier", "Yorgos Lanthimos",
	"Apichatpong Weerasethakul", "Nuri Bilge Ceylan",
}

var lowerAuteurs = func() []string {
	out := make([]string, len(auteurs))
	for i, name := range auteurs {
		out[i] = strings.ToLower(name)
	}
	return out
}()

// Auteurs returns a copy of the registry in canonical spelling.
func Auteurs() []string {
	out := make([]string, len(auteurs))
	copy(out, auteurs[:])
	return out
}

// MatchAuteur reports the registry entry matched by director, if any.
// Matching is case-insensitive substring containment in either direction.
// Blank director strings never match.
func MatchAuteur(director string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(director))
	if d == "" {
		return "", false
	}
	for i, a := range lowerAuteurs {
		if strings.Contains(d, a) || strings.Contains(a, d) {
			return auteurs[i], true
		}
	}
	return "", false
}
