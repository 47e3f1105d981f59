package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

// Mongo is the MongoDB-backed Store. Documents live in the blueprints and
// contracts collections, keyed by the application-level id field.
type Mongo struct {
	client     *mongo.Client
	blueprints *mongo.Collection
	contracts  *mongo.Collection
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	return &Mongo{
		client:     client,
		blueprints: db.Collection("blueprints"),
		contracts:  db.Collection("contracts"),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func newestFirst(limit int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
}

func (m *Mongo) ListBlueprints(ctx context.Context, limit int64) ([]domain.Blueprint, error) {
	cur, err := m.blueprints.Find(ctx, bson.M{}, newestFirst(limit))
	if err != nil {
		return nil, err
	}
	var out []domain.Blueprint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) GetBlueprint(ctx context.Context, id string) (domain.Blueprint, error) {
	var b domain.Blueprint
	err := m.blueprints.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Blueprint{}, ErrNotFound
	}
	return b, err
}

func (m *Mongo) InsertBlueprint(ctx context.Context, b domain.Blueprint) error {
	_, err := m.blueprints.InsertOne(ctx, b)
	return err
}

func (m *Mongo) UpdateBlueprint(ctx context.Context, b domain.Blueprint) error {
	res, err := m.blueprints.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteBlueprint(ctx context.Context, id string) error {
	res, err := m.blueprints.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CountBlueprints(ctx context.Context) (int64, error) {
	return m.blueprints.CountDocuments(ctx, bson.M{})
}

func contractQuery(f ContractFilter) bson.M {
	q := bson.M{}
	if len(f.Statuses) == 1 {
		q["status"] = f.Statuses[0]
	} else if len(f.Statuses) > 1 {
		q["status"] = bson.M{"$in": f.Statuses}
	}
	if f.BlueprintID != "" {
		q["blueprintId"] = f.BlueprintID
	}
	return q
}

func (m *Mongo) ListContracts(ctx context.Context, f ContractFilter, limit int64) ([]domain.Contract, error) {
	cur, err := m.contracts.Find(ctx, contractQuery(f), newestFirst(limit))
	if err != nil {
		return nil, err
	}
	var out []domain.Contract
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	var c domain.Contract
	err := m.contracts.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Contract{}, ErrNotFound
	}
	return c, err
}

func (m *Mongo) InsertContract(ctx context.Context, c domain.Contract) error {
	_, err := m.contracts.InsertOne(ctx, c)
	return err
}

func (m *Mongo) ReplaceContract(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	next := c
	next.Version = c.Version + 1
	res, err := m.contracts.ReplaceOne(ctx, bson.M{"id": c.ID, "version": c.Version}, next)
	if err != nil {
		return domain.Contract{}, err
	}
	if res.MatchedCount == 0 {
		// Either the document is gone or another writer bumped the version.
		n, err := m.contracts.CountDocuments(ctx, bson.M{"id": c.ID})
		if err != nil {
			return domain.Contract{}, err
		}
		if n == 0 {
			return domain.Contract{}, ErrNotFound
		}
		return domain.Contract{}, ErrVersionConflict
	}
	return next, nil
}

func (m *Mongo) DeleteContract(ctx context.Context, id string) error {
	res, err := m.contracts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CountContractsByBlueprint(ctx context.Context, blueprintID string) (int64, error) {
	return m.contracts.CountDocuments(ctx, bson.M{"blueprintId": blueprintID})
}

func (m *Mongo) CountContractsByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := m.contracts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status domain.Status `bson:"_id"`
		Count  int64         `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := map[domain.Status]int64{}
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
