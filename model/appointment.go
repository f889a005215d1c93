package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusBooked is the only status the ledger ever writes.
const StatusBooked = "booked"

type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DoctorID  string             `bson:"doctor_id" json:"doctor_id"`
	Date      string             `bson:"date" json:"date"`
	TimeSlot  string             `bson:"time_slot" json:"time_slot"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AppointmentView carries the caller-visible hex id next to the stored fields.
type AppointmentView struct {
	ID string `json:"id" example:"665f1c2b9d3e4a0012345678"`
	Appointment
}

// View converts the stored document into its JSON shape.
func (a Appointment) View() AppointmentView {
	return AppointmentView{ID: a.ID.Hex(), Appointment: a}
}
