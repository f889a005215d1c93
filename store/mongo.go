// Package store holds the MongoDB-backed credential store, doctor directory
// and appointment ledger. Each type owns exactly one collection.
package store

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DoctorsCollection      = "doctors"
	UsersCollection        = "users"
	AppointmentsCollection = "appointments"
)

// DateLayout is the only accepted calendar date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// parseID turns a 24-char hex string into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func insertedHex(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func parseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
