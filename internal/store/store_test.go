package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"talentscout/talent-service/internal/model"
)

// ── CoerceID ───────────────────────────────────────────────────────────────

func TestCoerceID_AcceptedInputs(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{int(12), 12},
		{int32(12), 12},
		{int64(12), 12},
		{float64(12), 12}, // JSON numbers decode to float64
		{"42", 42},
		{" 7 ", 7},
		{"-3", -3},
	}
	for _, c := range cases {
		got, err := CoerceID(c.in)
		if err != nil {
			t.Errorf("CoerceID(%v) returned unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("CoerceID(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCoerceID_RejectedInputs(t *testing.T) {
	cases := []any{
		nil,
		"",
		"abc",
		"12abc",
		12.5, // fractional numbers are not ids
		true,
		map[string]any{},
		int(0), // zero is never a valid id
		float64(0),
		"0",
	}
	for _, c := range cases {
		if _, err := CoerceID(c); !errors.Is(err, ErrInvalidTalentID) {
			t.Errorf("CoerceID(%v) error = %v, want ErrInvalidTalentID", c, err)
		}
	}
}

// ── normalize ──────────────────────────────────────────────────────────────

func TestNormalize_StripsNullsButKeepsIdentity(t *testing.T) {
	record := model.TalentDetail{
		"id":    float64(42),
		"name":  nil,
		"title": "A",
	}

	doc := normalize(record, 42)

	if _, ok := doc["name"]; ok {
		t.Error("null field \"name\" survived normalization")
	}
	if doc["title"] != "A" {
		t.Errorf("title = %v, want A", doc["title"])
	}
	if doc["talent_id"] != int64(42) {
		t.Errorf("talent_id = %v, want 42", doc["talent_id"])
	}
	if doc["id"] != int64(42) {
		t.Errorf("id = %v, want 42 (coerced, not the raw float)", doc["id"])
	}
	if _, ok := doc["updatedAt"].(time.Time); !ok {
		t.Errorf("updatedAt = %v, want a timestamp", doc["updatedAt"])
	}
}

func TestNormalize_NeverCarriesMongoID(t *testing.T) {
	record := model.TalentDetail{"id": int64(7), "_id": primitive.NewObjectID()}

	doc := normalize(record, 7)

	if _, ok := doc["_id"]; ok {
		t.Error("_id leaked into the $set document")
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	record := model.TalentDetail{"id": int64(7), "name": nil}
	normalize(record, 7)

	if _, ok := record["name"]; !ok {
		t.Error("normalize mutated its input record")
	}
	if _, ok := record["updatedAt"]; ok {
		t.Error("normalize mutated its input record")
	}
}

// ── runFallback — ordered identity lookups ─────────────────────────────────

func TestRunFallback_StopsAtFirstMatch(t *testing.T) {
	var filters []bson.M
	res, err := runFallback(context.Background(), 42,
		func(_ context.Context, filter bson.M) (*mongo.UpdateResult, error) {
			filters = append(filters, filter)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		})
	if err != nil {
		t.Fatalf("runFallback returned unexpected error: %v", err)
	}
	if res.MatchedCount != 1 {
		t.Errorf("MatchedCount = %d, want 1", res.MatchedCount)
	}
	want := []bson.M{{"talent_id": int64(42)}}
	if !reflect.DeepEqual(filters, want) {
		t.Errorf("attempted filters = %v, want %v", filters, want)
	}
}

func TestRunFallback_FallsThroughToLegacyID(t *testing.T) {
	var filters []bson.M
	res, err := runFallback(context.Background(), 42,
		func(_ context.Context, filter bson.M) (*mongo.UpdateResult, error) {
			filters = append(filters, filter)
			if _, ok := filter["id"]; ok {
				return &mongo.UpdateResult{MatchedCount: 1}, nil
			}
			return &mongo.UpdateResult{}, nil
		})
	if err != nil {
		t.Fatalf("runFallback returned unexpected error: %v", err)
	}
	if res.MatchedCount != 1 {
		t.Errorf("MatchedCount = %d, want 1 from the legacy id attempt", res.MatchedCount)
	}
	want := []bson.M{{"talent_id": int64(42)}, {"id": int64(42)}}
	if !reflect.DeepEqual(filters, want) {
		t.Errorf("attempted filters = %v, want %v", filters, want)
	}
}

func TestRunFallback_NoMatchDoesNotRecurse(t *testing.T) {
	calls := 0
	res, err := runFallback(context.Background(), 42,
		func(_ context.Context, _ bson.M) (*mongo.UpdateResult, error) {
			calls++
			return &mongo.UpdateResult{}, nil
		})
	if err != nil {
		t.Fatalf("runFallback returned unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("attempts = %d, want exactly 2 (one per identity key)", calls)
	}
	if res.MatchedCount != 0 {
		t.Errorf("MatchedCount = %d, want 0", res.MatchedCount)
	}
}

func TestRunFallback_ErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := runFallback(context.Background(), 42,
		func(_ context.Context, _ bson.M) (*mongo.UpdateResult, error) {
			return nil, boom
		})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want the underlying store error", err)
	}
}

// ── buildFilter ────────────────────────────────────────────────────────────

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(ListQuery{}); len(got) != 0 {
		t.Errorf("buildFilter(empty) = %v, want empty filter", got)
	}
}

func TestBuildFilter_SearchSpansProfileFields(t *testing.T) {
	filter := buildFilter(ListQuery{Search: "jane"})

	or, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("filter = %v, want an $or clause", filter)
	}
	if len(or) != len(searchFields) {
		t.Fatalf("len($or) = %d, want %d", len(or), len(searchFields))
	}
	for i, field := range searchFields {
		re, ok := or[i][field].(primitive.Regex)
		if !ok {
			t.Errorf("$or[%d] = %v, want a regex on %q", i, or[i], field)
			continue
		}
		if re.Options != "i" {
			t.Errorf("%s regex options = %q, want case-insensitive", field, re.Options)
		}
		if re.Pattern != "jane" {
			t.Errorf("%s regex pattern = %q, want %q", field, re.Pattern, "jane")
		}
	}
}

func TestBuildFilter_SearchQuotesRegexMeta(t *testing.T) {
	filter := buildFilter(ListQuery{Search: "c++ (senior)"})

	or := filter["$or"].([]bson.M)
	re := or[0][searchFields[0]].(primitive.Regex)
	if re.Pattern == "c++ (senior)" {
		t.Error("search input was not meta-quoted")
	}
}

func TestBuildFilter_RoleIsExactMatch(t *testing.T) {
	filter := buildFilter(ListQuery{Role: "Backend Developer"})

	if filter["role.name"] != "Backend Developer" {
		t.Errorf("role.name filter = %v, want exact string", filter["role.name"])
	}
	if _, ok := filter["$or"]; ok {
		t.Error("role-only query must not add a search clause")
	}
}
