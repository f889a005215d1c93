package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAppointmentView_JSON(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	a := Appointment{
		ID:        id,
		DoctorID:  "665f1c2b9d3e4a0012345678",
		Date:      "2024-06-10",
		TimeSlot:  "09:00",
		Status:    StatusBooked,
		CreatedAt: at,
		UpdatedAt: at,
	}

	b, err := json.Marshal(a.View())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, id.Hex(), got["id"])
	assert.Equal(t, "booked", got["status"])
	assert.Equal(t, "09:00", got["time_slot"])
	assert.NotContains(t, got, "_id")
	assert.NotContains(t, got, "ID")
}

func TestUser_JSONHidesHash(t *testing.T) {
	u := User{ID: primitive.NewObjectID(), Email: "a@b.com", HashedPassword: "$2a$10$secret"}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"id":"`+u.ID.Hex()+`"`)
}
