// internal/app/store/brds/brdstore.go
package brdstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/brdhub/internal/app/system/normalize"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateBrdID is returned by Create when the brd_id is already taken.
var ErrDuplicateBrdID = errors.New("a BRD with this identifier already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("brds")}
}

// Create inserts a new BRD after normalizing its status.
func (s *Store) Create(ctx context.Context, b models.BRD) (models.BRD, error) {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.Status = normalize.Status(b.Status)
	if b.Status == "" {
		b.Status = models.BrdStatusDraft
	}

	res, err := s.c.InsertOne(ctx, b)
	if err != nil {
		if isDuplicateKey(err) {
			return b, ErrDuplicateBrdID
		}
		return b, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return b, nil
}

// FindByBrdID returns a BRD by its workflow identifier.
// Returns mongo.ErrNoDocuments when absent.
func (s *Store) FindByBrdID(ctx context.Context, brdID string) (models.BRD, error) {
	var b models.BRD
	err := s.c.FindOne(ctx, bson.M{"brd_id": brdID}).Decode(&b)
	return b, err
}

// List returns BRDs ordered by brd_id, capped at limit (0 means server default).
func (s *Store) List(ctx context.Context, limit int64) ([]models.BRD, error) {
	opts := options.Find().SetSort(bson.D{{Key: "brd_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.BRD
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the workflow status on the BRD identified by formID and
// appends the note as a status comment in the same write. Returns
// mongo.ErrNoDocuments when no BRD carries that form.
func (s *Store) UpdateStatus(ctx context.Context, formID, status, note string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"form_id": formID},
		bson.M{
			"$set": bson.M{
				"status":     normalize.Status(status),
				"updated_at": now,
			},
			"$push": bson.M{
				"comments": models.StatusComment{
					Status:  normalize.Status(status),
					Note:    note,
					AddedAt: now,
				},
			},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
