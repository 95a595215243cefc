package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Field values are stored as JSON text under fields.<name> so a save is a
// single $set and concurrent saves of different steps do not overwrite
// each other.
type mongoDraft struct {
	Key       string            `bson:"_id"`
	Wizard    string            `bson:"wizard"`
	UserID    string            `bson:"userId"`
	EntityID  string            `bson:"entityId"`
	Fields    map[string]string `bson:"fields"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

type MongoStore struct {
	collection *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func NewMongoStore(db *mongo.Database, collectionName string) *MongoStore {
	return &MongoStore{collection: db.Collection(collectionName)}
}

func (s *MongoStore) Load(ctx context.Context, key Key) (*Draft, error) {
	result := s.collection.FindOne(ctx, bson.M{"_id": key.String()})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var doc mongoDraft
	if err := result.Decode(&doc); err != nil {
		return nil, ErrNotFound
	}

	fields := make(map[string]json.RawMessage, len(doc.Fields))
	for name, value := range doc.Fields {
		if !json.Valid([]byte(value)) {
			return nil, ErrNotFound
		}
		fields[name] = json.RawMessage(value)
	}
	return &Draft{Key: key, Fields: fields, UpdatedAt: doc.UpdatedAt}, nil
}

func (s *MongoStore) Save(ctx context.Context, key Key, fields map[string]json.RawMessage) error {
	if err := validFields(fields); err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for name, value := range fields {
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid field name %q", name)
		}
		set["fields."+name] = string(value)
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"wizard":   key.Wizard,
			"userId":   key.UserID,
			"entityId": key.EntityID,
		},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key.String()}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context, key Key) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key.String()}); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}
