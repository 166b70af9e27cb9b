package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"signalviz/internal/assessment/models"
	dErrors "signalviz/pkg/domain-errors"
)

// MongoStore keeps one document per record with a unique index on the
// application-level id. Nested document fields are preserved as stored.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo builds a store over the given collection and ensures the unique
// id index exists.
func NewMongo(ctx context.Context, client *mongo.Client, database, collection string) (*MongoStore, error) {
	coll := client.Database(database).Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "failed to ensure id index", err)
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.AssessmentRecord, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list assessments", err)
	}
	var records []models.AssessmentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to decode assessments", err)
	}
	return records, nil
}

// ReplaceAll is a full delete-then-insert; concurrent readers may observe an
// empty or partial collection during the window. Acceptable for the
// single-operator usage pattern.
func (s *MongoStore) ReplaceAll(ctx context.Context, records []models.AssessmentRecord) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to clear assessments", err)
	}
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to insert assessments", err)
	}
	return nil
}

func (s *MongoStore) AppendNew(ctx context.Context, records []models.AssessmentRecord) (int, error) {
	existingIDs, err := s.coll.Distinct(ctx, "id", bson.D{})
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "failed to read existing ids", err)
	}
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		if str, ok := id.(string); ok {
			existing[str] = struct{}{}
		}
	}

	var docs []any
	for _, rec := range records {
		if _, ok := existing[rec.ID]; ok {
			continue
		}
		existing[rec.ID] = struct{}{}
		docs = append(docs, rec)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		// A concurrent append can win the race past the dedup snapshot; the
		// unique index reports it and the caller retries.
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrDuplicateID
		}
		return 0, dErrors.Wrap(dErrors.CodeInternal, "failed to append assessments", err)
	}
	return len(docs), nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.AssessmentRecord, error) {
	var rec models.AssessmentRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AssessmentRecord{}, ErrNotFound
	}
	if err != nil {
		return models.AssessmentRecord{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load assessment", err)
	}
	return rec, nil
}

func (s *MongoStore) Update(ctx context.Context, record models.AssessmentRecord) error {
	result, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "id", Value: record.ID}}, record)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to update assessment", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete assessment", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to clear assessments", err)
	}
	return nil
}
