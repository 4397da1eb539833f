package core

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Resource represents one of the tracked media categories, one of
// movie, game, book
type Resource string

// all supported resources
const (
	ResourceMovie Resource = "movie"
	ResourceGame  Resource = "game"
	ResourceBook  Resource = "book"
)

// Resources lists all supported resources in their canonical order
func Resources() []Resource {
	return []Resource{ResourceMovie, ResourceGame, ResourceBook}
}

// UnmarshalJSON is a custom JSON unmarshaller
func (rc *Resource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*rc = Resource(s)
	switch *rc {
	case ResourceMovie, ResourceGame, ResourceBook:
		return nil
	default:
		return fmt.Errorf("%s is not a valid Resource", s)
	}
}

// Noun returns the capitalized display noun used in human-readable
// messages, e.g. "Movie deleted successfully"
func (rc Resource) Noun() string {
	s := string(rc)
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Collection returns the name of the backing document collection,
// which is the plural form of the resource
func (rc Resource) Collection() string {
	return Plural(string(rc))
}

// Plural returns the plural form of the passed singular string.
//
// This is the algorithm used to create idiomatic REST routes
func Plural(singular string) string {
	if strings.HasSuffix(singular, "y") {
		return strings.TrimSuffix(singular, "y") + "ies"
	}
	return singular + "s"
}
