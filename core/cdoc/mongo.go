// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package cdoc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to the MongoDB instance at uri, pings it and
// returns a store for the named database
func OpenMongo(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// List returns all documents ordered by createdAt descending
func (s *MongoStore) List(ctx context.Context, collection string) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		docs = append(docs, fromBSON(m))
	}
	return docs, cursor.Err()
}

// FindByID returns a single document by id
func (s *MongoStore) FindByID(ctx context.Context, collection string, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(m), nil
}

// Insert stores a new document and returns its assigned id
func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	result, err := s.db.Collection(collection).InsertOne(ctx, toBSON(doc))
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// Update merges fields into the stored document
func (s *MongoStore) Update(ctx context.Context, collection string, id string, fields Document) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": oid}, bson.M{"$set": toBSON(fields)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a document
func (s *MongoStore) Delete(ctx context.Context, collection string, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents in a collection
func (s *MongoStore) Count(ctx context.Context, collection string) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, bson.M{})
}

// Close disconnects from the database
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toBSON prepares a document for writing. The "id" key is carried
// separately as _id and must not be stored as a field.
func toBSON(doc Document) bson.M {
	m := bson.M{}
	for key, value := range doc {
		if key == "id" || key == "_id" {
			continue
		}
		m[key] = value
	}
	return m
}

// fromBSON converts a decoded document back into the wire shape:
// _id becomes the hex "id" property, BSON dates become time.Time
func fromBSON(m bson.M) Document {
	doc := Document{}
	for key, value := range m {
		if key == "_id" {
			if oid, ok := value.(primitive.ObjectID); ok {
				doc["id"] = oid.Hex()
				continue
			}
		}
		doc[key] = fromBSONValue(value)
	}
	return doc
}

func fromBSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	case primitive.ObjectID:
		return v.Hex()
	case bson.M:
		nested := Document{}
		for key, inner := range v {
			nested[key] = fromBSONValue(inner)
		}
		return nested
	case bson.A:
		list := make([]interface{}, len(v))
		for i, inner := range v {
			list[i] = fromBSONValue(inner)
		}
		return list
	default:
		return value
	}
}
