package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

const linksCollection = "links"

// LinkRepository implements ports.LinkRepository using MongoDB.
type LinkRepository struct {
	col *mongo.Collection
}

func NewLinkRepository(db *mongo.Database) *LinkRepository {
	return &LinkRepository{col: db.Collection(linksCollection)}
}

type mongoLink struct {
	ShortID     string     `bson:"short_id"`
	OriginalURL string     `bson:"original_url"`
	OwnerID     string     `bson:"owner_id"`
	CreatedAt   time.Time  `bson:"created_at"`
	Clicks      int64      `bson:"clicks"`
	LastUsedAt  *time.Time `bson:"last_used_at,omitempty"`
}

// Insert stores a new link. The unique short_id index turns a code collision
// into domain.ErrCodeExists.
func (r *LinkRepository) Insert(ctx context.Context, l *domain.Link) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoLink{
		ShortID:     l.Code,
		OriginalURL: l.OriginalURL,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCodeExists
		}
		return wrapErr("insert link", err)
	}
	return nil
}

// FindByCode retrieves a link by its short code.
func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*domain.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var ml mongoLink
	if err := r.col.FindOne(ctx, bson.M{"short_id": code}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, wrapErr("find link", err)
	}

	return &domain.Link{
		Code:        ml.ShortID,
		OriginalURL: ml.OriginalURL,
		OwnerID:     ml.OwnerID,
		CreatedAt:   ml.CreatedAt.UTC(),
		Clicks:      ml.Clicks,
		LastUsedAt:  ml.LastUsedAt,
	}, nil
}

// RecordVisit atomically increments the click counter and sets last_used_at.
func (r *LinkRepository) RecordVisit(ctx context.Context, code string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"short_id": code}
	update := bson.M{
		"$inc": bson.M{"clicks": 1},
		"$set": bson.M{"last_used_at": at.UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapErr("record visit", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the links collection.
func (r *LinkRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "short_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_short_id"),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
