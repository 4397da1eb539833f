// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"math"
	"sort"

	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/collectify/core"
	"github.com/relabs-tech/collectify/core/logger"
)

// resourceStatistics represents aggregate information about one collection
type resourceStatistics struct {
	Resource       string  `json:"resource"`
	Count          int64   `json:"count"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	AverageRating  float64 `json:"average_rating"`
}

// statisticsDetails represents aggregate information about the backend resources
type statisticsDetails struct {
	Collections []resourceStatistics `json:"collections"`
	Overall     resourceStatistics   `json:"overall"`
}

func (b *Backend) handleStatistics(router *mux.Router) {
	logger.Default().Debugln("statistics")
	logger.Default().Debugln("  handle statistics route: /collectify/statistics GET")
	router.Handle("/collectify/statistics", handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		b.statistics(w, r)
	}))).Methods(http.MethodOptions, http.MethodGet)
}

func (b *Backend) statistics(w http.ResponseWriter, r *http.Request) {
	rlog := logger.FromContext(r.Context())

	resources := make([]core.Resource, 0, len(b.config.Collections))
	for _, rc := range b.config.Collections {
		resources = append(resources, rc.Resource)
	}
	// sort the resources so that the ETag is unchanged regardless of
	// the configuration order
	sort.Slice(resources, func(i, j int) bool { return resources[i] < resources[j] })

	s := statisticsDetails{Collections: []resourceStatistics{}}
	var overallRatingSum float64
	var overallRated int64

	for _, resource := range resources {
		collection := resource.Collection()
		docs, err := b.store.List(r.Context(), collection)
		if err != nil {
			rlog.WithError(err).Errorln("Error 4028: cannot list", collection)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		stats := resourceStatistics{Resource: string(resource), Count: int64(len(docs))}
		var ratingSum float64
		var rated int64
		for _, doc := range docs {
			if doc["status"] == "completed" {
				stats.Completed++
			}
			// a rating of zero means unrated and is excluded from the average
			if rating := ratingValue(doc["rating"]); rating > 0 {
				ratingSum += rating
				rated++
			}
		}
		if stats.Count > 0 {
			stats.CompletionRate = completionPercent(stats.Completed, stats.Count)
		}
		if rated > 0 {
			stats.AverageRating = roundRating(ratingSum / float64(rated))
		}
		s.Collections = append(s.Collections, stats)

		s.Overall.Count += stats.Count
		s.Overall.Completed += stats.Completed
		overallRatingSum += ratingSum
		overallRated += rated
	}

	s.Overall.Resource = "overall"
	if s.Overall.Count > 0 {
		s.Overall.CompletionRate = completionPercent(s.Overall.Completed, s.Overall.Count)
	}
	if overallRated > 0 {
		s.Overall.AverageRating = roundRating(overallRatingSum / float64(overallRated))
	}

	jsonData, _ := json.MarshalWithOption(s, json.DisableHTMLEscape())
	etag := bytesToEtag(jsonData)
	w.Header().Set("Etag", etag)
	if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(jsonData)
}

// ratingValue extracts a numeric rating from a free-form document field
func ratingValue(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// roundRating rounds to one decimal place, the precision ratings are
// displayed with
func roundRating(value float64) float64 {
	return math.Round(value*10) / 10
}

// completionPercent returns the completed share as a whole percentage
func completionPercent(completed, count int64) float64 {
	return math.Round(float64(completed) / float64(count) * 100)
}
