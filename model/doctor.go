package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SlotInput is one entry of the available_slots array on doctor creation.
// Day is accepted from clients but never stored; it is recomputed from Date.
type SlotInput struct {
	Date  string
	Day   string
	Slots []string
}

// Doctor is the stored document. AvailableSlots keeps the date→slots mapping
// as an ordered bson.D so the submitted order survives a round trip.
type Doctor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Specialty      string             `bson:"specialty"`
	AvailableSlots bson.D             `bson:"available_slots"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// DaySlots is the read-side view of a single date key.
type DaySlots struct {
	Date  string   `json:"date" example:"2024-06-10"`
	Day   string   `json:"day" example:"Monday"`
	Slots []string `json:"slots"`
}

// DoctorView is what GET /api/v1/doctors/{id} returns under "doctor".
type DoctorView struct {
	ID             string     `json:"id" example:"665f1c2b9d3e4a0012345678"`
	Name           string     `json:"name" example:"Dr. A"`
	Specialty      string     `json:"specialty" example:"cardio"`
	AvailableSlots []DaySlots `json:"available_slots"`
}
