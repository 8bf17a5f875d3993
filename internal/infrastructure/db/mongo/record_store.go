package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.RecordStore = (*RecordStore)(nil)

// RecordStore maps tables onto collections. Records are keyed by their "id"
// field; the driver's _id never leaves the store.
type RecordStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

var withoutObjectID = bson.M{"_id": 0}

func (s *RecordStore) Find(ctx context.Context, table string, filters ...domain.Filter) ([]domain.Record, error) {
	if err := domain.CheckIdentifiers(table, filters, nil); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	for _, f := range filters {
		filter[f.Field] = f.Value
	}

	cursor, err := s.db.Collection(table).Find(ctx, filter, options.Find().SetProjection(withoutObjectID))
	if err != nil {
		return nil, storeError("find", table, err)
	}
	defer cursor.Close(ctx)

	out := []domain.Record{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeError("find", table, err)
		}
		out = append(out, toRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, storeError("find", table, err)
	}
	return out, nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, rec domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(table, nil, rec); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := rec.Without("_id")
	if row.ID() == "" {
		row[domain.FieldID] = uuid.NewString()
	}
	// BSON datetimes carry millisecond precision.
	now := s.now().UTC().Truncate(time.Millisecond)
	row[domain.FieldCreatedAt] = now
	row[domain.FieldUpdatedAt] = now

	if _, err := s.db.Collection(table).InsertOne(ctx, bson.M(row)); err != nil {
		return nil, storeError("insert", table, err)
	}
	return row, nil
}

func (s *RecordStore) Update(ctx context.Context, table, id string, patch domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(table, nil, patch); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	changes := patch.Without("_id", domain.FieldID, domain.FieldCreatedAt)
	changes[domain.FieldUpdatedAt] = s.now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutObjectID)

	var doc bson.M
	err := s.db.Collection(table).
		FindOneAndUpdate(ctx, bson.M{domain.FieldID: id}, bson.M{"$set": bson.M(changes)}, opts).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storeError("update", table, err)
	}
	return toRecord(doc), nil
}

func (s *RecordStore) Delete(ctx context.Context, table, id string) (bool, error) {
	if err := domain.CheckIdentifiers(table, nil, nil); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(table).DeleteOne(ctx, bson.M{domain.FieldID: id})
	if err != nil {
		return false, storeError("delete", table, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

// EnsureIndexes creates the unique and lookup indexes the tables rely on.
func (s *RecordStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	tables := map[string][]mongo.IndexModel{
		domain.TableClient: {
			{Keys: bson.D{{Key: domain.FieldID, Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		domain.TableExpert: {
			{Keys: bson.D{{Key: domain.FieldID, Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		domain.TablePreferences: {
			{Keys: bson.D{{Key: domain.FieldID, Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
		},
		domain.TableAccessLogs: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}
	for _, kind := range []domain.ResourceKind{domain.KindAudit, domain.KindSimulation, domain.KindEligibility} {
		tables[kind.Table] = []mongo.IndexModel{
			{Keys: bson.D{{Key: domain.FieldID, Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: domain.FieldOwner, Value: 1}, {Key: domain.FieldCreatedAt, Value: -1}}},
		}
	}

	for table, models := range tables {
		if _, err := s.db.Collection(table).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", table, err)
		}
	}
	return nil
}

func storeError(op, table string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.Reject(domain.ErrConflict, op, table, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, table, domain.ErrStoreFailure, err)
}

func toRecord(doc bson.M) domain.Record {
	out := make(domain.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = normalize(v)
	}
	return out
}

// normalize replaces driver value types with their plain Go equivalents.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = normalize(e)
		}
		return a
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return int64(t)
	default:
		return v
	}
}
