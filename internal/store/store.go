// Package store implements talent persistence on MongoDB: the idempotent
// upsert the scraper writes through, and the search queries the API serves.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscout/talent-service/internal/model"
)

const eventTalentSaved = "EVENT_TALENT_SAVED"

// ErrInvalidTalentID marks records whose id is missing, zero or not
// coercible to an integer. Such records are rejected before any write.
var ErrInvalidTalentID = errors.New("talent id is missing or not numeric")

// TalentStore owns the talents collection. The upsert is idempotent and
// keyed by talent_id, so re-running a scrape over the same page range is
// always safe.
type TalentStore struct {
	talents *mongo.Collection
	rdb     *redis.Client // optional; nil disables the roles cache and save events
}

// New returns a TalentStore over the given collection.
func New(db *mongo.Database, collection string, rdb *redis.Client) *TalentStore {
	return &TalentStore{talents: db.Collection(collection), rdb: rdb}
}

// EnsureIndexes creates the unique identity index. Safe to call on every
// startup; an existing identical index is a no-op.
func (s *TalentStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.talents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "talent_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create talent_id index: %w", err)
	}
	return nil
}

// Save upserts one merged talent record. The document is normalized first:
// identity pinned under talent_id and id, updatedAt refreshed, null fields
// dropped. Untouched fields of an existing document survive ($set, not a
// replace).
func (s *TalentStore) Save(ctx context.Context, record model.TalentDetail) (*model.SaveResult, error) {
	id, err := CoerceID(record["id"])
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": normalize(record, id)}

	res, err := s.talents.UpdateOne(ctx,
		bson.M{"talent_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("upsert talent %d: %w", id, err)
		}
		// Pre-existing documents can hold the identity under the legacy
		// "id" key only, which makes a fresh upsert collide. Retry as a
		// plain update against each known identity key.
		res, err = runFallback(ctx, id, func(ctx context.Context, filter bson.M) (*mongo.UpdateResult, error) {
			return s.talents.UpdateOne(ctx, filter, update)
		})
		if err != nil {
			return nil, fmt.Errorf("fallback update talent %d: %w", id, err)
		}
	}

	s.afterSave(ctx, id)

	return &model.SaveResult{
		ID:       id,
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
	}, nil
}

// updateFunc applies one update attempt under the given identity filter.
type updateFunc func(ctx context.Context, filter bson.M) (*mongo.UpdateResult, error)

// identityFilters is the ordered list of keys a talent document may be
// stored under: talent_id is canonical, "id" survives from data written
// before talent_id existed.
func identityFilters(id int64) []bson.M {
	return []bson.M{{"talent_id": id}, {"id": id}}
}

// runFallback walks the identity filters in order, stopping at the first
// one that matches a document. The attempts never upsert, so a duplicate-key
// conflict cannot recurse.
func runFallback(ctx context.Context, id int64, apply updateFunc) (*mongo.UpdateResult, error) {
	var res *mongo.UpdateResult
	for _, filter := range identityFilters(id) {
		var err error
		res, err = apply(ctx, filter)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount > 0 {
			return res, nil
		}
	}
	return res, nil
}

// normalize builds the document actually written. Every null field is
// stripped except the identity, which is always present on a persisted
// record.
func normalize(record model.TalentDetail, id int64) bson.M {
	doc := make(bson.M, len(record)+2)
	for k, v := range record {
		if v == nil {
			continue
		}
		if k == "_id" {
			continue // never touch Mongo's own key
		}
		doc[k] = v
	}
	doc["talent_id"] = id
	doc["id"] = id
	doc["updatedAt"] = time.Now().UTC()
	return doc
}

// CoerceID extracts an integer talent id from a decoded JSON value. JSON
// numbers arrive as float64; ids wrapped in strings are accepted when they
// are plain decimal. Zero is rejected — the remote never issues it.
func CoerceID(v any) (int64, error) {
	var id int64
	switch n := v.(type) {
	case int:
		id = int64(n)
	case int32:
		id = int64(n)
	case int64:
		id = n
	case float64:
		if n != math.Trunc(n) {
			return 0, ErrInvalidTalentID
		}
		id = int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, ErrInvalidTalentID
		}
		id = parsed
	default:
		return 0, ErrInvalidTalentID
	}

	if id == 0 {
		return 0, ErrInvalidTalentID
	}
	return id, nil
}

// afterSave publishes the save event and drops the cached roles list.
// Failures are logged only — the write already succeeded.
func (s *TalentStore) afterSave(ctx context.Context, id int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Publish(ctx, eventTalentSaved, strconv.FormatInt(id, 10)).Err(); err != nil {
		log.Printf("[store] Publish %s for talent %d: %v", eventTalentSaved, id, err)
	}
	if err := s.rdb.Del(ctx, rolesCacheKey).Err(); err != nil {
		log.Printf("[store] Roles cache invalidation: %v", err)
	}
}
