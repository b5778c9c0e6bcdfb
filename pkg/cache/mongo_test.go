package cache

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	mcerrors "github.com/matzehuels/mcviz/pkg/errors"
)

func TestMongoEntryExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	past, future := now.Add(-time.Second), now.Add(time.Second)

	tests := []struct {
		name string
		at   *time.Time
		want bool
	}{
		{"no expiry", nil, false},
		{"past", &past, true},
		{"exactly now", &now, true},
		{"future", &future, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (mongoEntry{ExpiresAt: tt.at}).expired(now); got != tt.want {
				t.Errorf("expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMongoEntryBSON(t *testing.T) {
	data, err := bson.Marshal(mongoEntry{Key: "layout:abc", Data: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	raw := bson.Raw(data)
	if id := raw.Lookup("_id").StringValue(); id != "layout:abc" {
		t.Errorf("_id = %q", id)
	}
	if _, err := raw.LookupErr("expires_at"); err == nil {
		t.Error("entries without ttl must not carry expires_at")
	}
}

func TestNewMongoCacheInvalidURI(t *testing.T) {
	_, err := NewMongoCache(context.Background(), "http://localhost")
	if !mcerrors.Is(err, mcerrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}
