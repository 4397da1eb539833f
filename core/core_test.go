package core

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestResource_JSON_Unmarshalling(t *testing.T) {

	type Object struct {
		Resources []Resource `json:"resources"`
	}
	var object Object
	jsonRead := `{"resources":["movie","game","book"]}`
	err := json.Unmarshal([]byte(jsonRead), &object)
	if err != nil {
		t.Fatal(err)
	}

	jsonRead = `{"resources":["vinyl"]}`
	err = json.Unmarshal([]byte(jsonRead), &object)
	if err == nil {
		t.Fatal("invalid resource accepted")
	}
}

func TestPlural(t *testing.T) {
	cases := map[string]string{
		"movie":   "movies",
		"game":    "games",
		"book":    "books",
		"library": "libraries",
	}
	for singular, plural := range cases {
		if got := Plural(singular); got != plural {
			t.Fatalf("Plural(%s): expected %s, got %s", singular, plural, got)
		}
	}
}

func TestResourceNounAndCollection(t *testing.T) {
	if ResourceBook.Noun() != "Book" {
		t.Fatal("wrong noun for book")
	}
	if ResourceMovie.Collection() != "movies" {
		t.Fatal("wrong collection for movie")
	}
}
