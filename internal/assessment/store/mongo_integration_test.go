//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"signalviz/internal/assessment/models"
	"signalviz/internal/assessment/store"
	"signalviz/pkg/testutil/containers"
)

type MongoStoreSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	store *store.MongoStore
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) SetupSuite() {
	s.mongo = containers.NewMongoContainer(s.T())

	ms, err := store.NewMongo(context.Background(), s.mongo.Client, "signalviz_test", "assessments")
	s.Require().NoError(err)
	s.store = ms
}

func (s *MongoStoreSuite) SetupTest() {
	s.Require().NoError(s.store.DeleteAll(context.Background()))
}

func (s *MongoStoreSuite) TestReplaceAllRoundTrip() {
	ctx := context.Background()
	in := []models.AssessmentRecord{
		{ID: "a", Data: models.RecordData{
			RawScore: 30,
			DerivedSignals: &models.DerivedSignals{Subscores: map[string]models.SubscoreValue{
				"logic":  {Number: 8},
				"verbal": {Scored: &models.Scored{Score: 6, Max: 15}},
			}},
		}},
		{ID: "b", Data: models.RecordData{RawScore: 55}},
	}
	s.Require().NoError(s.store.ReplaceAll(ctx, in))

	out, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(out, 2)

	byID := map[string]models.AssessmentRecord{out[0].ID: out[0], out[1].ID: out[1]}
	a := byID["a"]
	s.Equal(30.0, a.Data.RawScore)

	// both subscore variants survive the BSON round trip
	score, max := a.Data.DerivedSignals.Subscores["logic"].Resolve()
	s.Equal(8.0, score)
	s.Equal(float64(models.DefaultSubscoreMax), max)
	score, max = a.Data.DerivedSignals.Subscores["verbal"].Resolve()
	s.Equal(6.0, score)
	s.Equal(15.0, max)
}

func (s *MongoStoreSuite) TestAppendNewDeduplicates() {
	ctx := context.Background()
	s.Require().NoError(s.store.ReplaceAll(ctx, []models.AssessmentRecord{{ID: "a"}}))

	inserted, err := s.store.AppendNew(ctx, []models.AssessmentRecord{{ID: "a"}, {ID: "b"}})
	s.Require().NoError(err)
	s.Equal(1, inserted)

	out, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(out, 2)
}

func (s *MongoStoreSuite) TestUpdateAnnotations() {
	ctx := context.Background()
	s.Require().NoError(s.store.ReplaceAll(ctx, []models.AssessmentRecord{{ID: "a"}}))

	updated := models.AssessmentRecord{ID: "a", Annotations: models.Annotations{"flagged": true}}
	s.Require().NoError(s.store.Update(ctx, updated))

	got, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.True(got.Annotations.Flagged())
}

func (s *MongoStoreSuite) TestDeleteUnknown() {
	s.Require().ErrorIs(s.store.Delete(context.Background(), "missing"), store.ErrNotFound)
}
