// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package cdoc

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process maps. It exists for unit
// tests and local development without a database. Ids use the same hex
// object id format as MongoStore so that both implementations are
// interchangeable behind the Store interface.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document // in insertion order
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string][]Document{},
	}
}

// List returns all documents ordered by createdAt descending, ties
// broken by insertion order, most recently inserted first
func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.collections[collection]
	docs := make([]Document, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		docs = append(docs, copyDocument(stored[i]))
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return documentTime(docs[i], "createdAt").After(documentTime(docs[j], "createdAt"))
	})
	return docs, nil
}

// FindByID returns a single document by id
func (s *MemoryStore) FindByID(ctx context.Context, collection string, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if doc["id"] == id {
			return copyDocument(doc), nil
		}
	}
	return nil, ErrNotFound
}

// Insert stores a new document and returns its assigned id
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyDocument(doc)
	delete(stored, "_id")
	id := NewID()
	stored["id"] = id
	s.collections[collection] = append(s.collections[collection], stored)
	return id, nil
}

// Update merges fields into the stored document
func (s *MemoryStore) Update(ctx context.Context, collection string, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if doc["id"] != id {
			continue
		}
		for key, value := range fields {
			if key == "id" || key == "_id" {
				continue
			}
			doc[key] = copyValue(value)
		}
		return nil
	}
	return ErrNotFound
}

// Delete permanently removes a document
func (s *MemoryStore) Delete(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.collections[collection]
	for i, doc := range stored {
		if doc["id"] == id {
			s.collections[collection] = append(stored[:i], stored[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Count returns the number of documents in a collection
func (s *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections[collection])), nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func documentTime(doc Document, key string) time.Time {
	if t, ok := doc[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

func copyDocument(doc Document) Document {
	copied := make(Document, len(doc))
	for key, value := range doc {
		copied[key] = copyValue(value)
	}
	return copied
}

func copyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case Document:
		return copyDocument(v)
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, inner := range v {
			list[i] = copyValue(inner)
		}
		return list
	default:
		return value
	}
}
