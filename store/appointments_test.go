package store

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

const doctorHex = "665f1c2b9d3e4a0012345678"

func appointmentDoc(id primitive.ObjectID, slot string) bson.D {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "doctor_id", Value: doctorHex},
		{Key: "date", Value: "2024-06-10"},
		{Key: "time_slot", Value: slot},
		{Key: "status", Value: model.StatusBooked},
		{Key: "created_at", Value: at},
		{Key: "updated_at", Value: at},
	}
}

func insertError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 8000, Message: "write failed", Name: "AtlasError"})
}

func TestAppointmentLedger_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("double booking gives distinct ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		l := NewAppointmentLedger(mt.DB, nil)

		id1, err := l.Create(t.Context(), doctorHex, "2024-06-10", "09:00")
		require.NoError(mt, err)
		id2, err := l.Create(t.Context(), doctorHex, "2024-06-10", "09:00")
		require.NoError(mt, err)
		assert.NotEqual(mt, id1, id2)
	})

	mt.Run("store error", func(mt *mtest.T) {
		mt.AddMockResponses(insertError())
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Create(t.Context(), doctorHex, "2024-06-10", "09:00")
		assert.Error(mt, err)
	})
}

func TestAppointmentLedger_NewAppointment(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	l := &AppointmentLedger{now: fixedClock(at)}

	a := l.newAppointment("no-such-doctor", "2024-06-10", "09:00")
	assert.Equal(t, model.Appointment{
		DoctorID:  "no-such-doctor",
		Date:      "2024-06-10",
		TimeSlot:  "09:00",
		Status:    model.StatusBooked,
		CreatedAt: at,
		UpdatedAt: at,
	}, a)
}

func TestAppointmentLedger_List(t *testing.T) {
	mt := newMockT(t)

	mt.Run("returns store order", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(findResponse(mt, AppointmentsCollection, appointmentDoc(a, "09:00"), appointmentDoc(b, "10:00")))
		l := NewAppointmentLedger(mt.DB, nil)

		list, err := l.List(t.Context())
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, a, list[0].ID)
		assert.Equal(mt, "10:00", list[1].TimeSlot)
		assert.Equal(mt, model.StatusBooked, list[1].Status)
	})

	mt.Run("empty is not nil", func(mt *mtest.T) {
		mt.AddMockResponses(findResponse(mt, AppointmentsCollection))
		l := NewAppointmentLedger(mt.DB, nil)

		list, err := l.List(t.Context())
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})
}

func TestAppointmentLedger_Replace(t *testing.T) {
	mt := newMockT(t)
	id := primitive.NewObjectID()

	mt.Run("new record under a new id", func(mt *mtest.T) {
		mt.AddMockResponses(
			findResponse(mt, AppointmentsCollection, appointmentDoc(id, "09:00")),
			deleteResponse(1),
			mtest.CreateSuccessResponse(),
		)
		l := NewAppointmentLedger(mt.DB, nil)

		newID, err := l.Replace(t.Context(), id.Hex(), doctorHex, "2024-06-11", "11:00")
		require.NoError(mt, err)
		assert.NotEqual(mt, id.Hex(), newID)
		assert.Len(mt, newID, 24)
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Replace(t.Context(), "not-a-hex-id", doctorHex, "2024-06-11", "11:00")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(findResponse(mt, AppointmentsCollection))
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Replace(t.Context(), id.Hex(), doctorHex, "2024-06-11", "11:00")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("aborts when delete removes nothing", func(mt *mtest.T) {
		// no insert response is queued: an insert attempt would fail the test
		mt.AddMockResponses(
			findResponse(mt, AppointmentsCollection, appointmentDoc(id, "09:00")),
			deleteResponse(0),
		)
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Replace(t.Context(), id.Hex(), doctorHex, "2024-06-11", "11:00")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("restores original when insert fails", func(mt *mtest.T) {
		mt.AddMockResponses(
			findResponse(mt, AppointmentsCollection, appointmentDoc(id, "09:00")),
			deleteResponse(1),
			insertError(),
			mtest.CreateSuccessResponse(),
		)
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Replace(t.Context(), id.Hex(), doctorHex, "2024-06-11", "11:00")
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "insert replacement appointment")
		assert.NotContains(mt, err.Error(), "restore appointment")
	})

	mt.Run("reports both errors when restore fails", func(mt *mtest.T) {
		mt.AddMockResponses(
			findResponse(mt, AppointmentsCollection, appointmentDoc(id, "09:00")),
			deleteResponse(1),
			insertError(),
			insertError(),
		)
		var logs bytes.Buffer
		l := NewAppointmentLedger(mt.DB, util.NewLogger(util.EnvTest, &logs))
		_, err := l.Replace(t.Context(), id.Hex(), doctorHex, "2024-06-11", "11:00")
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "insert replacement appointment")
		assert.Contains(mt, err.Error(), "restore appointment")
		assert.Contains(mt, logs.String(), "appointment lost during replace")
	})
}

func TestAppointmentLedger_Delete(t *testing.T) {
	mt := newMockT(t)
	id := primitive.NewObjectID()

	mt.Run("removes the record", func(mt *mtest.T) {
		mt.AddMockResponses(deleteResponse(1))
		l := NewAppointmentLedger(mt.DB, nil)
		ok, err := l.Delete(t.Context(), id.Hex())
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(deleteResponse(0))
		l := NewAppointmentLedger(mt.DB, nil)
		ok, err := l.Delete(t.Context(), id.Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.False(mt, ok)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		l := NewAppointmentLedger(mt.DB, nil)
		_, err := l.Delete(t.Context(), "not-a-hex-id")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}
