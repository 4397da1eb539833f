// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package cdoc provides the document store layer for the backend.

A Store holds independent named collections of free-form JSON documents.
Documents are identified by a hex-encoded object id under the "id" key;
the store assigns the id at insertion time and never reuses it. The store
enforces no schema, all field validation happens at the handler boundary.

MongoStore is the production implementation. MemoryStore implements the
same contract in process and is used by the unit tests.
*/
package cdoc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a free-form JSON document
type Document = map[string]interface{}

// ErrNotFound is returned when no document matches the requested id
var ErrNotFound = errors.New("document not found")

// Store provides persistence for named collections of documents
type Store interface {
	// List returns all documents of a collection ordered by their
	// createdAt timestamp, most recent first. It returns an empty
	// slice when the collection has no documents.
	List(ctx context.Context, collection string) ([]Document, error)

	// FindByID returns the document with the given id, or ErrNotFound
	FindByID(ctx context.Context, collection string, id string) (Document, error)

	// Insert stores a new document and returns its assigned id
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Update merges the given fields into the stored document. Fields
	// not present in the argument are left untouched. Returns
	// ErrNotFound when no document matches the id.
	Update(ctx context.Context, collection string, id string, fields Document) error

	// Delete permanently removes the document, or returns ErrNotFound
	Delete(ctx context.Context, collection string, id string) error

	// Count returns the number of documents in a collection
	Count(ctx context.Context, collection string) (int64, error)

	// Close releases the store's resources
	Close(ctx context.Context) error
}

// ValidID reports whether id is a well-formed document identifier,
// i.e. a 24 character hex object id
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// NewID returns a fresh unique document identifier
func NewID() string {
	return primitive.NewObjectID().Hex()
}
