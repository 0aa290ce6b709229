package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordDoc is one record of the tree, addressed by its full path.
type recordDoc struct {
	Path   string `bson:"_id"`
	Parent string `bson:"parent"`
	Key    string `bson:"key"`
	Data   bson.M `bson:"data"`
}

// MongoStore is the RecordStore backed by MongoDB. Transactions need a replica set.
type MongoStore struct {
	client  *mongo.Client
	records *mongo.Collection
	locks   *mongo.Collection
}

// NewMongoStore returns a MongoStore over the given database and creates its indexes.
func NewMongoStore(client *mongo.Client, dbName string) (*MongoStore, error) {
	db := client.Database(dbName)
	s := &MongoStore{
		client:  client,
		records: db.Collection("records"),
		locks:   db.Collection("record_locks"),
	}
	if err := s.ensureIndexes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (s *MongoStore) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "parent", Value: 1}, {Key: "key", Value: 1}}},
	}
	if _, err := s.records.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func descendantsFilter(path string) bson.M {
	return bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(path) + "/"}}
}

func toDocument(raw []byte) (bson.M, error) {
	var data bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &data); err != nil {
		return nil, fmt.Errorf("records must be JSON objects: %w", err)
	}
	return data, nil
}

func toJSON(data bson.M) (json.RawMessage, error) {
	raw, err := bson.MarshalExtJSON(data, false, false)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *MongoStore) Children(ctx context.Context, path string) ([]Child, error) {
	path = cleanPath(path)
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})
	cursor, err := s.records.Find(ctx, bson.M{"parent": path}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list %s: %w", path, err)
	}
	defer cursor.Close(ctx)

	var children []Child
	for cursor.Next(ctx) {
		var doc recordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode %s: %w", path, err)
		}
		raw, err := toJSON(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("mongo: encode %s: %w", doc.Path, err)
		}
		children = append(children, Child{Key: doc.Key, Value: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: list %s: %w", path, err)
	}
	return children, nil
}

func (s *MongoStore) Get(ctx context.Context, path string, v interface{}) (bool, error) {
	path = cleanPath(path)
	var doc recordDoc
	if err := s.records.FindOne(ctx, bson.M{"_id": path}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("mongo: get %s: %w", path, err)
	}
	raw, err := toJSON(doc.Data)
	if err != nil {
		return true, fmt.Errorf("mongo: encode %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("mongo: decode %s: %w", path, err)
	}
	return true, nil
}

func (s *MongoStore) Set(ctx context.Context, path string, v interface{}) error {
	path = cleanPath(path)
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mongo: encode %s: %w", path, err)
	}
	if _, err := s.records.DeleteMany(ctx, descendantsFilter(path)); err != nil {
		return fmt.Errorf("mongo: set %s: %w", path, err)
	}
	if isNull(raw) {
		_, err := s.records.DeleteOne(ctx, bson.M{"_id": path})
		return err
	}
	return s.replace(ctx, path, raw)
}

func (s *MongoStore) replace(ctx context.Context, path string, raw []byte) error {
	data, err := toDocument(raw)
	if err != nil {
		return fmt.Errorf("mongo: set %s: %w", path, err)
	}
	parent, key := splitPath(path)
	doc := recordDoc{Path: path, Parent: parent, Key: key, Data: data}
	_, err = s.records.ReplaceOne(ctx, bson.M{"_id": path}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: set %s: %w", path, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	path = cleanPath(path)
	if len(fields) == 0 {
		return fmt.Errorf("mongo: update %s: no fields", path)
	}
	set := bson.M{}
	unset := bson.M{}
	for k, v := range fields {
		if v == nil {
			unset["data."+k] = ""
			continue
		}
		set["data."+k] = v
	}
	parent, key := splitPath(path)
	update := bson.M{"$setOnInsert": bson.M{"parent": parent, "key": key}}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.records.UpdateOne(ctx, bson.M{"_id": path}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: update %s: %w", path, err)
	}
	return nil
}

func (s *MongoStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	key := NewKey()
	if err := s.Set(ctx, Join(path, key), v); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MongoStore) Delete(ctx context.Context, path string) error {
	path = cleanPath(path)
	filter := bson.M{"$or": bson.A{bson.M{"_id": path}, descendantsFilter(path)}}
	if _, err := s.records.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("mongo: delete %s: %w", path, err)
	}
	return nil
}

// Transaction runs fn inside a multi-document transaction. Every transaction on
// the same node increments that node's revision first, so two of them can never
// both commit from the same snapshot: the loser hits a write conflict and the
// driver retries it against fresh data.
func (s *MongoStore) Transaction(ctx context.Context, path string, fn TxnFunc) error {
	path = cleanPath(path)

	// Create the revision document outside the transaction; an upsert racing
	// inside two transactions could fail with a non-retryable duplicate key.
	if _, err := s.locks.UpdateOne(ctx, bson.M{"_id": path},
		bson.M{"$setOnInsert": bson.M{"rev": 0}}, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo: transaction %s: %w", path, err)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var fnErr error
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		fnErr = nil
		if _, err := s.locks.UpdateOne(sc, bson.M{"_id": path}, bson.M{"$inc": bson.M{"rev": 1}}); err != nil {
			return nil, err
		}

		children, err := s.Children(sc, path)
		if err != nil {
			return nil, err
		}
		var current map[string]json.RawMessage
		for _, c := range children {
			if current == nil {
				current = make(map[string]json.RawMessage)
			}
			current[c.Key] = c.Value
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err
			return nil, err
		}

		for key := range current {
			if _, keep := next[key]; !keep {
				if err := s.Delete(sc, Join(path, key)); err != nil {
					return nil, err
				}
			}
		}
		for key, raw := range next {
			if old, ok := current[key]; ok && bytes.Equal(old, raw) {
				continue
			}
			if isNull(raw) {
				if err := s.Delete(sc, Join(path, key)); err != nil {
					return nil, err
				}
				continue
			}
			if err := s.replace(sc, Join(path, key), raw); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("mongo: transaction %s: %w", path, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
