package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	rolesCacheKey = "talent:roles"
	rolesCacheTTL = 5 * time.Minute
)

// ListQuery carries the viewer's pagination and filter parameters.
type ListQuery struct {
	Page   int64
	Limit  int64
	Search string // case-insensitive substring across profile fields
	Role   string // exact role name
}

// searchFields are the document paths the free-text filter scans, OR-ed
// together.
var searchFields = []string{"user.name", "user.title", "user.headline", "user.location"}

// buildFilter translates a ListQuery into the Mongo filter document.
func buildFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		or := make([]bson.M, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}
	if q.Role != "" {
		filter["role.name"] = q.Role
	}
	return filter
}

// List returns one page of talents plus the total count for the same
// filter. Best-ranked first, ties broken by ascending id.
func (s *TalentStore) List(ctx context.Context, q ListQuery) ([]bson.M, int64, error) {
	filter := buildFilter(q)

	total, err := s.talents.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count talents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "personal_rank", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)

	cursor, err := s.talents.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find talents: %w", err)
	}
	defer cursor.Close(ctx)

	talents := make([]bson.M, 0, q.Limit)
	if err := cursor.All(ctx, &talents); err != nil {
		return nil, 0, fmt.Errorf("decode talents: %w", err)
	}

	return talents, total, nil
}

// Roles returns the distinct role names present in the collection, sorted.
// Cached in Redis for a few minutes when configured; the cache is dropped
// on every save.
func (s *TalentStore) Roles(ctx context.Context) ([]string, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, rolesCacheKey).Result(); err == nil {
			var roles []string
			if json.Unmarshal([]byte(cached), &roles) == nil {
				return roles, nil
			}
		}
	}

	values, err := s.talents.Distinct(ctx, "role.name",
		bson.M{"role.name": bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return nil, fmt.Errorf("distinct roles: %w", err)
	}

	roles := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok && name != "" {
			roles = append(roles, name)
		}
	}
	sort.Strings(roles)

	if s.rdb != nil {
		if data, err := json.Marshal(roles); err == nil {
			if err := s.rdb.Set(ctx, rolesCacheKey, data, rolesCacheTTL).Err(); err != nil {
				log.Printf("[store] Roles cache set: %v", err)
			}
		}
	}

	return roles, nil
}
