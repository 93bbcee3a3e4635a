// Package idgen produces identifiers for new lists and items.
//
// Collisions are not checked against stored records; both strategies make
// them statistically negligible.
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Strategy names accepted by New.
const (
	StrategyUUID     = "uuid"
	StrategyObjectID = "objectid"
)

// Generator returns a new identifier on every call.
type Generator interface {
	Generate() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

func (UUID) Generate() string { return uuid.NewString() }

// ObjectID generates MongoDB ObjectID hex strings.
type ObjectID struct{}

func (ObjectID) Generate() string { return primitive.NewObjectID().Hex() }

// New returns the generator for strategy. A blank strategy selects UUID.
func New(strategy string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyUUID:
		return UUID{}, nil
	case StrategyObjectID:
		return ObjectID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q (want %q or %q)", strategy, StrategyUUID, StrategyObjectID)
	}
}
