// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/collectify/core/cdoc"
)

type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Status    string    `json:"status"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func TestCollectionBook(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	bNew := Book{
		Title:  "The Dispossessed",
		Genre:  "science fiction",
		Status: "completed",
		Rating: 5,
		Author: "Ursula K. Le Guin",
		Year:   1974,
	}
	b := Book{}

	status, err := ts.client.RawPost("/api/books", &bNew, &b)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Fatalf("got status %d", status)
	}
	if !cdoc.ValidID(b.ID) {
		t.Fatalf("no valid id: %q", b.ID)
	}
	if b.Title != bNew.Title || b.Genre != bNew.Genre || b.Status != bNew.Status ||
		b.Rating != bNew.Rating || b.Author != bNew.Author || b.Year != bNew.Year {
		t.Fatalf("unexpected result: %s", asJSON(b))
	}
	if b.CreatedAt.IsZero() || !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Fatalf("timestamps not set on create: %s", asJSON(b))
	}

	// read it back
	g := Book{}
	if _, err = ts.client.RawGet("/api/books/"+b.ID, &g); err != nil {
		t.Fatal(err)
	}
	if asJSON(g) != asJSON(b) {
		t.Fatalf("read-back mismatch: %s vs %s", asJSON(g), asJSON(b))
	}
}

func TestCollectionValidation(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	cases := []struct {
		payload map[string]interface{}
		message string
	}{
		{map[string]interface{}{}, "Title is required and cannot be empty."},
		{map[string]interface{}{"title": "   "}, "Title is required and cannot be empty."},
		{map[string]interface{}{"title": "Dune"}, "Genre is required and cannot be empty."},
		{map[string]interface{}{"title": "Dune", "genre": "science fiction"}, "Status is required and cannot be empty."},
		{map[string]interface{}{"title": "Dune", "genre": "science fiction", "status": " "}, "Status is required and cannot be empty."},
	}

	for _, c := range cases {
		status, err := ts.client.RawPost("/api/books", c.payload, nil)
		if status != http.StatusBadRequest {
			t.Fatalf("payload %s: got status %d", asJSON(c.payload), status)
		}
		if err == nil || !strings.Contains(err.Error(), c.message) {
			t.Fatalf("payload %s: got error %v, want %q", asJSON(c.payload), err, c.message)
		}
	}

	// the same rules apply on update
	b := Book{}
	if _, err := ts.client.RawPost("/api/books",
		&Book{Title: "Dune", Genre: "science fiction", Status: "planned"}, &b); err != nil {
		t.Fatal(err)
	}
	status, err := ts.client.RawPut("/api/books/"+b.ID, map[string]interface{}{"title": "Dune"}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("got status %d", status)
	}
	if err == nil || !strings.Contains(err.Error(), "Genre is required and cannot be empty.") {
		t.Fatalf("got error %v", err)
	}
}

func TestCollectionInvalidAndUnknownID(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	// malformed id is rejected before the store is consulted
	status, err := ts.client.RawGet("/api/movies/not-a-hex-id", nil)
	if status != http.StatusBadRequest || err == nil || !strings.Contains(err.Error(), "Invalid movie ID") {
		t.Fatalf("got status %d, error %v", status, err)
	}
	status, _ = ts.client.RawDelete("/api/movies/short", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("got status %d", status)
	}

	// well-formed but unknown id
	unknown := cdoc.NewID()
	status, err = ts.client.RawGet("/api/movies/"+unknown, nil)
	if status != http.StatusNotFound || err == nil || !strings.Contains(err.Error(), "Movie not found") {
		t.Fatalf("got status %d, error %v", status, err)
	}
	status, _ = ts.client.RawPut("/api/movies/"+unknown,
		map[string]interface{}{"title": "Stalker", "genre": "drama", "status": "planned"}, nil)
	if status != http.StatusNotFound {
		t.Fatalf("got status %d", status)
	}
	status, _ = ts.client.RawDelete("/api/movies/"+unknown, nil)
	if status != http.StatusNotFound {
		t.Fatalf("got status %d", status)
	}
}

func TestCollectionUpdate(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	b := Book{}
	if _, err := ts.client.RawPost("/api/books", &Book{
		Title:   "Solaris",
		Genre:   "science fiction",
		Status:  "playing",
		Comment: "slow start",
		Author:  "Stanisław Lem",
	}, &b); err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * time.Millisecond)

	// an update is a merge: absent fields survive, createdAt cannot be overwritten
	u := Book{}
	status, err := ts.client.RawPut("/api/books/"+b.ID, map[string]interface{}{
		"title":     "Solaris",
		"genre":     "science fiction",
		"status":    "completed",
		"rating":    4,
		"createdAt": "1999-01-01T00:00:00Z",
	}, &u)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("got status %d", status)
	}
	if u.Status != "completed" || u.Rating != 4 {
		t.Fatalf("update not applied: %s", asJSON(u))
	}
	if u.Comment != "slow start" || u.Author != "Stanisław Lem" {
		t.Fatalf("absent fields were lost: %s", asJSON(u))
	}
	if !u.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("createdAt was modified: %v vs %v", u.CreatedAt, b.CreatedAt)
	}
	if !u.UpdatedAt.After(b.UpdatedAt) {
		t.Fatalf("updatedAt was not refreshed: %v vs %v", u.UpdatedAt, b.UpdatedAt)
	}
}

func TestCollectionDelete(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	b := Book{}
	if _, err := ts.client.RawPost("/api/books",
		&Book{Title: "Ubik", Genre: "science fiction", Status: "planned"}, &b); err != nil {
		t.Fatal(err)
	}

	res := map[string]string{}
	status, err := ts.client.RawDelete("/api/books/"+b.ID, &res)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || res["message"] != "Book deleted successfully" {
		t.Fatalf("got status %d, body %s", status, asJSON(res))
	}

	status, _ = ts.client.RawGet("/api/books/"+b.ID, nil)
	if status != http.StatusNotFound {
		t.Fatalf("got status %d", status)
	}
}

func TestCollectionList(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	// an empty collection is an empty array, never null
	var raw []byte
	if _, err := ts.client.RawGet("/api/games", &raw); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("got body %s", string(raw))
	}

	titles := []string{"Outer Wilds", "Hades", "Disco Elysium"}
	for _, title := range titles {
		if _, err := ts.client.RawPost("/api/games",
			&Book{Title: title, Genre: "indie", Status: "planned"}, nil); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond) // distinct createdAt
	}

	list := []Book{}
	if _, err := ts.client.RawGet("/api/games", &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != len(titles) {
		t.Fatalf("got %d items", len(list))
	}
	// newest first
	for i, title := range []string{"Disco Elysium", "Hades", "Outer Wilds"} {
		if list[i].Title != title {
			t.Fatalf("wrong order: %s", asJSON(list))
		}
	}
}

func TestCollectionEtag(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	if _, err := ts.client.RawPost("/api/movies",
		&Book{Title: "Stalker", Genre: "drama", Status: "completed"}, nil); err != nil {
		t.Fatal(err)
	}

	var list []Book
	status, header, err := ts.client.RawGetWithHeader("/api/movies", nil, &list)
	if err != nil {
		t.Fatal(err)
	}
	etag := header.Get("ETag")
	if status != http.StatusOK || etag == "" {
		t.Fatalf("got status %d, etag %q", status, etag)
	}

	status, _, err = ts.client.RawGetWithHeader("/api/movies",
		map[string]string{"If-None-Match": etag}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotModified {
		t.Fatalf("got status %d", status)
	}

	// a modification invalidates the etag
	if _, err = ts.client.RawPost("/api/movies",
		&Book{Title: "Mirror", Genre: "drama", Status: "planned"}, nil); err != nil {
		t.Fatal(err)
	}
	status, _, err = ts.client.RawGetWithHeader("/api/movies",
		map[string]string{"If-None-Match": etag}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("got status %d", status)
	}
}
