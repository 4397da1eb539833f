// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"errors"
	"strings"
	"time"

	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/collectify/core/cdoc"
	"github.com/relabs-tech/collectify/core/logger"
)

// requiredFields are validated in this fixed order; the first failing
// field determines the error message
var requiredFields = []struct {
	key     string
	message string
}{
	{"title", "Title is required and cannot be empty."},
	{"genre", "Genre is required and cannot be empty."},
	{"status", "Status is required and cannot be empty."},
}

// validateRequired returns the error message for the first required
// field that is missing or blank after trimming
func validateRequired(doc cdoc.Document) (string, bool) {
	for _, field := range requiredFields {
		value, ok := doc[field.key].(string)
		if !ok || strings.TrimSpace(value) == "" {
			return field.message, false
		}
	}
	return "", true
}

func (b *Backend) createCollectionResource(router *mux.Router, rc collectionConfiguration) {
	resource := rc.Resource
	this := string(resource)
	noun := resource.Noun()
	collection := resource.Collection()

	nillog := logger.FromContext(nil)
	nillog.Debugln("create collection:", resource)
	if rc.Description != "" {
		nillog.Debugln("  description:", rc.Description)
	}

	listRoute := "/api/" + collection
	itemRoute := "/api/" + collection + "/{" + this + "_id}"

	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST")
	nillog.Debugln("  handle collection routes:", itemRoute, "GET,PUT,DELETE")

	invalidIDMessage := "Invalid " + this + " ID"
	notFoundMessage := noun + " not found"
	deletedMessage := noun + " deleted successfully"

	list := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())

		docs, err := b.store.List(r.Context(), collection)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4021: cannot list %s", collection)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		jsonData, _ := json.MarshalWithOption(docs, json.DisableHTMLEscape())
		etag := bytesToEtag(jsonData)
		w.Header().Set("Etag", etag)
		if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(jsonData)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())
		id := mux.Vars(r)[this+"_id"]
		if !cdoc.ValidID(id) {
			writeError(w, http.StatusBadRequest, invalidIDMessage)
			return
		}

		doc, err := b.store.FindByID(r.Context(), collection, id)
		if errors.Is(err, cdoc.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		if err != nil {
			rlog.WithError(err).Errorf("Error 4022: cannot read %s %s", this, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		jsonData, _ := json.MarshalWithOption(doc, json.DisableHTMLEscape())
		etag := bytesToEtag(jsonData)
		w.Header().Set("Etag", etag)
		if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(jsonData)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())

		doc, err := readDocument(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if message, ok := validateRequired(doc); !ok {
			writeError(w, http.StatusBadRequest, message)
			return
		}

		// the store assigns the id, the backend owns the timestamps
		delete(doc, "id")
		delete(doc, "_id")
		now := time.Now().UTC()
		doc["createdAt"] = now
		doc["updatedAt"] = now

		id, err := b.store.Insert(r.Context(), collection, doc)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4023: cannot insert into %s", collection)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		stored, err := b.store.FindByID(r.Context(), collection, id)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4024: cannot read back %s %s", this, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())
		id := mux.Vars(r)[this+"_id"]
		if !cdoc.ValidID(id) {
			writeError(w, http.StatusBadRequest, invalidIDMessage)
			return
		}

		doc, err := readDocument(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if message, ok := validateRequired(doc); !ok {
			writeError(w, http.StatusBadRequest, message)
			return
		}

		// createdAt is immutable, it must not be overridable via the payload
		delete(doc, "createdAt")
		delete(doc, "id")
		delete(doc, "_id")
		doc["updatedAt"] = time.Now().UTC()

		err = b.store.Update(r.Context(), collection, id, doc)
		if errors.Is(err, cdoc.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		if err != nil {
			rlog.WithError(err).Errorf("Error 4025: cannot update %s %s", this, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		stored, err := b.store.FindByID(r.Context(), collection, id)
		if err != nil {
			rlog.WithError(err).Errorf("Error 4026: cannot read back %s %s", this, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}

	remove := func(w http.ResponseWriter, r *http.Request) {
		rlog := logger.FromContext(r.Context())
		id := mux.Vars(r)[this+"_id"]
		if !cdoc.ValidID(id) {
			writeError(w, http.StatusBadRequest, invalidIDMessage)
			return
		}

		err := b.store.Delete(r.Context(), collection, id)
		if errors.Is(err, cdoc.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		if err != nil {
			rlog.WithError(err).Errorf("Error 4027: cannot delete %s %s", this, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": deletedMessage})
	}

	// LIST
	router.Handle(listRoute, handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		list(w, r)
	}))).Methods(http.MethodOptions, http.MethodGet)

	// CREATE
	router.Handle(listRoute, handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		create(w, r)
	}))).Methods(http.MethodOptions, http.MethodPost)

	// READ
	router.Handle(itemRoute, handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		read(w, r)
	}))).Methods(http.MethodOptions, http.MethodGet)

	// UPDATE
	router.Handle(itemRoute, handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		update(w, r)
	}))).Methods(http.MethodOptions, http.MethodPut)

	// DELETE
	router.Handle(itemRoute, handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		remove(w, r)
	}))).Methods(http.MethodOptions, http.MethodDelete)
}
