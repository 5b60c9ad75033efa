// Package seed decodes film seed files for catalog imports.
//
// A seed file is JSON or YAML holding either a list of film records or an
// object with "movies" and optional "directors" lists. Numeric fields are
// lenient: numbers, numeric strings and nulls are accepted and anything
// unparsable becomes 0. Malformed URLs are dropped, not the record.
package seed

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/internal/validation"
)

// Format is a seed file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Record is one film as written in a seed file.
type Record struct {
	ID          string   `json:"_id" yaml:"_id"`
	TMDBID      any      `json:"tmdbId" yaml:"tmdbId"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Year        any      `json:"year" yaml:"year"`
	Decade      any      `json:"decade" yaml:"decade"`
	Directors   []string `json:"directors" yaml:"directors"`
	Genres      []string `json:"genres" yaml:"genres"`
	DerivedTags []string `json:"derivedTags" yaml:"derivedTags"`
	Country     string   `json:"country" yaml:"country"`
	VoteAverage any      `json:"vote_average" yaml:"vote_average"`
	VoteCount   any      `json:"vote_count" yaml:"vote_count"`
	Popularity  any      `json:"popularity" yaml:"popularity"`
	Tier        any      `json:"tier" yaml:"tier"`
	Runtime     any      `json:"runtime" yaml:"runtime"`
	Synopsis    string   `json:"synopsis" yaml:"synopsis"`
	PosterURL   string   `json:"posterUrl" yaml:"posterUrl"`
	BackdropURL string   `json:"backdropUrl" yaml:"backdropUrl"`
	TrailerURL  string   `json:"trailerUrl" yaml:"trailerUrl"`
}

// Film converts the record, defaulting unusable numbers to 0.
func (r Record) Film() model.Film {
	f := model.Film{
		ID:          strings.TrimSpace(r.ID),
		TMDBID:      integer(r.TMDBID),
		Title:       r.Title,
		Year:        integer(r.Year),
		Decade:      integer(r.Decade),
		Directors:   r.Directors,
		Genres:      r.Genres,
		DerivedTags: r.DerivedTags,
		Country:     r.Country,
		VoteAverage: number(r.VoteAverage),
		VoteCount:   integer(r.VoteCount),
		Popularity:  number(r.Popularity),
		Tier:        integer(r.Tier),
		Runtime:     integer(r.Runtime),
		Synopsis:    r.Synopsis,
		PosterURL:   r.PosterURL,
		BackdropURL: r.BackdropURL,
		TrailerURL:  r.TrailerURL,
	}
	f.Normalize()
	return f
}

// DirectorRecord is one director profile as written in a seed file.
type DirectorRecord struct {
	ID           string   `json:"_id" yaml:"_id"`
	Name         string   `json:"name" yaml:"name" validate:"required"`
	TMDBID       any      `json:"tmdbId" yaml:"tmdbId"`
	Bio          string   `json:"bio" yaml:"bio"`
	BirthDate    string   `json:"birthDate" yaml:"birthDate"`
	DeathDate    string   `json:"deathDate" yaml:"deathDate"`
	PlaceOfBirth string   `json:"placeOfBirth" yaml:"placeOfBirth"`
	ProfileURL   string   `json:"profileUrl" yaml:"profileUrl"`
	BackdropURL  string   `json:"backdropUrl" yaml:"backdropUrl"`
	KeyStyles    []string `json:"keyStyles" yaml:"keyStyles"`
	Eras         []string `json:"eras" yaml:"eras"`
	Awards       []string `json:"awards" yaml:"awards"`
}

// Director converts the record.
func (r DirectorRecord) Director() model.Director {
	d := model.Director{
		ID:           strings.TrimSpace(r.ID),
		Name:         r.Name,
		TMDBID:       integer(r.TMDBID),
		Bio:          r.Bio,
		BirthDate:    r.BirthDate,
		DeathDate:    r.DeathDate,
		PlaceOfBirth: r.PlaceOfBirth,
		ProfileURL:   r.ProfileURL,
		BackdropURL:  r.BackdropURL,
		KeyStyles:    r.KeyStyles,
		Eras:         r.Eras,
		Awards:       r.Awards,
	}
	d.Normalize()
	return d
}

// Rejection is a record left out of the result, or a value dropped from one.
type Rejection struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// Result holds the films and directors decoded from a seed file.
type Result struct {
	Films     []model.Film
	Directors []model.Director
	Rejected  []Rejection
	Dropped   []Rejection // URL values removed from otherwise valid records
}

type envelope struct {
	Movies    []Record         `json:"movies" yaml:"movies"`
	Directors []DirectorRecord `json:"directors" yaml:"directors"`
}

// Load reads and decodes the seed file at path.
func Load(path string) (Result, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read seed: %w", err)
	}
	return Decode(data, format)
}

// Decode parses data in format and validates every record.
// Director rejections are indexed from the start of the directors list.
func Decode(data []byte, format Format) (Result, error) {
	env, err := decodeEnvelope(data, format)
	if err != nil {
		return Result{}, err
	}

	res := Result{Films: make([]model.Film, 0, len(env.Movies))}
	for i, r := range env.Movies {
		r.Title = strings.TrimSpace(r.Title)
		if err := validation.Struct(r); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Title: r.Title, Reason: err.Error()})
			continue
		}
		for _, u := range []struct {
			name string
			dst  *string
		}{
			{"posterUrl", &r.PosterURL},
			{"backdropUrl", &r.BackdropURL},
			{"trailerUrl", &r.TrailerURL},
		} {
			if reason := dropInvalidURL(u.name, u.dst); reason != "" {
				res.Dropped = append(res.Dropped, Rejection{Index: i, Title: r.Title, Reason: reason})
			}
		}
		res.Films = append(res.Films, r.Film())
	}

	for i, r := range env.Directors {
		r.Name = strings.TrimSpace(r.Name)
		if err := validation.Struct(r); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Title: r.Name, Reason: err.Error()})
			continue
		}
		for _, u := range []struct {
			name string
			dst  *string
		}{
			{"profileUrl", &r.ProfileURL},
			{"backdropUrl", &r.BackdropURL},
		} {
			if reason := dropInvalidURL(u.name, u.dst); reason != "" {
				res.Dropped = append(res.Dropped, Rejection{Index: i, Title: r.Name, Reason: reason})
			}
		}
		res.Directors = append(res.Directors, r.Director())
	}
	return res, nil
}

// dropInvalidURL clears *u when it is set but not an absolute URL and says why.
func dropInvalidURL(name string, u *string) string {
	*u = strings.TrimSpace(*u)
	if *u == "" || validation.Var(*u, "url") == nil {
		return ""
	}
	reason := fmt.Sprintf("%s %q is not a URL", name, *u)
	*u = ""
	return reason
}

func decodeEnvelope(data []byte, format Format) (envelope, error) {
	var unmarshal func([]byte, any) error
	switch format {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	default:
		return envelope{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var list []Record
	listErr := unmarshal(data, &list)
	if listErr == nil {
		return envelope{Movies: list}, nil
	}
	var env envelope
	if err := unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %w", ErrDecode, listErr)
	}
	return env, nil
}

func number(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func integer(v any) int {
	return int(number(v))
}
