// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend_test

import (
	"net/http"
	"testing"
)

type resourceStats struct {
	Resource       string  `json:"resource"`
	Count          int     `json:"count"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	AverageRating  float64 `json:"average_rating"`
}

type statsResult struct {
	Collections []resourceStats `json:"collections"`
	Overall     resourceStats   `json:"overall"`
}

func TestStatistics(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	seed := []struct {
		path   string
		status string
		rating float64
	}{
		{"/api/books", "planned", 0},
		{"/api/books", "completed", 4},
		{"/api/books", "playing", 0},
		{"/api/books", "completed", 2},
		{"/api/movies", "completed", 5},
	}
	for i, s := range seed {
		payload := map[string]interface{}{
			"title":  "item",
			"genre":  "misc",
			"status": s.status,
			"rating": s.rating,
		}
		if _, err := ts.client.RawPost(s.path, payload, nil); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	res := statsResult{}
	if _, err := ts.client.RawGet("/collectify/statistics", &res); err != nil {
		t.Fatal(err)
	}

	byResource := map[string]resourceStats{}
	for _, c := range res.Collections {
		byResource[c.Resource] = c
	}

	books := byResource["book"]
	if books.Count != 4 || books.Completed != 2 || books.CompletionRate != 50 {
		t.Fatalf("unexpected book stats: %s", asJSON(books))
	}
	// zero ratings do not count towards the average
	if books.AverageRating != 3.0 {
		t.Fatalf("unexpected book average: %v", books.AverageRating)
	}

	movies := byResource["movie"]
	if movies.Count != 1 || movies.Completed != 1 || movies.CompletionRate != 100 || movies.AverageRating != 5.0 {
		t.Fatalf("unexpected movie stats: %s", asJSON(movies))
	}

	games := byResource["game"]
	if games.Count != 0 || games.Completed != 0 || games.CompletionRate != 0 || games.AverageRating != 0 {
		t.Fatalf("unexpected game stats: %s", asJSON(games))
	}

	overall := res.Overall
	if overall.Resource != "overall" || overall.Count != 5 || overall.Completed != 3 ||
		overall.CompletionRate != 60 || overall.AverageRating != 3.7 {
		t.Fatalf("unexpected overall stats: %s", asJSON(overall))
	}
}

func TestStatisticsEtag(t *testing.T) {
	ts := CreateTestService(configurationJSON)

	res := statsResult{}
	status, header, err := ts.client.RawGetWithHeader("/collectify/statistics", nil, &res)
	if err != nil {
		t.Fatal(err)
	}
	etag := header.Get("ETag")
	if status != http.StatusOK || etag == "" {
		t.Fatalf("got status %d, etag %q", status, etag)
	}

	status, _, err = ts.client.RawGetWithHeader("/collectify/statistics",
		map[string]string{"If-None-Match": etag}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotModified {
		t.Fatalf("got status %d", status)
	}
}
