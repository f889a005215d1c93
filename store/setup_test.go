package store

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

// findResponse answers a single find with docs and a closed cursor.
func findResponse(mt *mtest.T, coll string, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt, coll), mtest.FirstBatch, docs...)
}

func deleteResponse(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n})
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
