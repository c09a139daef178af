package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

const journalCollection = "journals"

// MongoJournalStore implements JournalStore on top of the shared Mongo database.
type MongoJournalStore struct {
	db *mongo.Database
}

func NewMongoJournalStore(db *mongo.Database) *MongoJournalStore {
	return &MongoJournalStore{db: db}
}

func (s *MongoJournalStore) collection() *mongo.Collection {
	return s.db.Collection(journalCollection)
}

// EnsureJournalIndexes configures indexes for the journals collection.
// Called on startup from main after Mongo has connected.
func (s *MongoJournalStore) EnsureJournalIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "date_key", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_owner_datekey_created"),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_owner_created"),
		},
	}

	for _, m := range indexes {
		if _, err := s.collection().Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoJournalStore) Insert(ctx context.Context, entry models.Journal) (string, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAtServer = time.Now().UTC()

	if _, err := s.collection().InsertOne(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID.Hex(), nil
}

func (s *MongoJournalStore) Delete(ctx context.Context, ownerID, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.collection().DeleteOne(ctx, bson.M{
		"_id":      objectID,
		"owner_id": ownerID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoJournalStore) ScanByDateKey(ctx context.Context, ownerID, startKey, endKey string, limit int64) ([]models.Journal, error) {
	filter := bson.M{
		"owner_id": ownerID,
		"date_key": bson.M{"$gte": startKey, "$lt": endKey},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date_key", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(limit)

	return s.scan(ctx, filter, opts)
}

func (s *MongoJournalStore) ScanRecent(ctx context.Context, ownerID string, limit int64) ([]models.Journal, error) {
	filter := bson.M{"owner_id": ownerID}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	return s.scan(ctx, filter, opts)
}

func (s *MongoJournalStore) ScanDateKeysDesc(ctx context.Context, ownerID string, limit int64) ([]string, error) {
	filter := bson.M{"owner_id": ownerID}

	opts := options.Find().
		SetSort(bson.D{{Key: "date_key", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"date_key": 1})

	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var doc struct {
			DateKey string `bson:"date_key"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		keys = append(keys, doc.DateKey)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *MongoJournalStore) scan(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Journal, error) {
	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.Journal
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
