// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend_test

import (
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/collectify/core/backend"
	"github.com/relabs-tech/collectify/core/cdoc"
	"github.com/relabs-tech/collectify/core/client"
)

// TestService bundles everything a test needs to talk to the backend
type TestService struct {
	Store   *cdoc.MemoryStore
	Router  *mux.Router
	backend *backend.Backend
	client  client.Client
}

// CreateTestService creates a new service that can be used for testing.
// It runs entirely in memory, no database required.
func CreateTestService(config string) *TestService {
	s := TestService{
		Store:  cdoc.NewMemoryStore(),
		Router: mux.NewRouter(),
	}
	s.backend = backend.MustNew(&backend.Builder{
		Config: config,
		Store:  s.Store,
		Router: s.Router,
	})
	s.client = client.NewWithRouter(s.Router)
	return &s
}

func asJSON(object interface{}) string {
	j, _ := json.Marshal(object)
	return string(j)
}

var configurationJSON string = `{
	"collections": [
	  {
		"resource": "movie"
	  },
	  {
		"resource": "game"
	  },
	  {
		"resource": "book"
	  }
	],
	"uploads": {
	  "resource": "uploads"
	}
  }
`
