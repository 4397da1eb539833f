// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/collectify/core/cdoc"
	"github.com/relabs-tech/collectify/core/logger"
)

// Backend is the generic rest backend
type Backend struct {
	config Configuration
	store  cdoc.Store
	router *mux.Router
}

// Builder is a builder helper for the Backend
type Builder struct {
	// Config is the JSON description of all collections. This is mandatory.
	Config string
	// Store is the document store. This is mandatory.
	Store cdoc.Store
	// Router is a mux router. This is mandatory.
	Router *mux.Router
}

// New realizes the actual backend. It adds all routes for the configured
// collections, the upload resource and the statistics route to the router.
func New(bb *Builder) (*Backend, error) {

	var config Configuration
	err := json.Unmarshal([]byte(bb.Config), &config)
	if err != nil {
		return nil, fmt.Errorf("parse error in backend configuration: %s", err)
	}

	if bb.Store == nil {
		return nil, fmt.Errorf("Store is missing")
	}

	if bb.Router == nil {
		return nil, fmt.Errorf("Router is missing")
	}

	b := &Backend{
		config: config,
		store:  bb.Store,
		router: bb.Router,
	}

	b.handleCORS()
	logger.AddRequestID(b.router)
	b.handleRoutes(b.router)
	return b, nil
}

// MustNew is like New but panics on invalid configuration
func MustNew(bb *Builder) *Backend {
	b, err := New(bb)
	if err != nil {
		panic(err)
	}
	return b
}

// handleRoutes adds all necessary handlers for the specified configuration
func (b *Backend) handleRoutes(router *mux.Router) {

	nillog := logger.Default()
	nillog.Debugln("backend: handleRoutes")

	for _, rc := range b.config.Collections {
		b.createCollectionResource(router, rc)
	}

	uploads := uploadConfiguration{Resource: "uploads", MaxSizeBytes: defaultUploadSizeBytes}
	if b.config.Uploads != nil {
		uploads = *b.config.Uploads
		if uploads.Resource == "" {
			uploads.Resource = "uploads"
		}
		if uploads.MaxSizeBytes == 0 {
			uploads.MaxSizeBytes = defaultUploadSizeBytes
		}
	}
	b.createUploadResource(router, uploads)

	b.handleStatistics(router)

	nillog.Debugln("  handle liveness route: / GET")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Collectify API is running!"})
	}).Methods(http.MethodOptions, http.MethodGet)
}
