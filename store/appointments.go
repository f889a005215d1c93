package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
)

// AppointmentLedger stores bookings. It checks neither that the doctor exists
// nor that the slot is free: double booking is allowed.
type AppointmentLedger struct {
	coll *mongo.Collection
	log  *slog.Logger
	now  func() time.Time
}

func NewAppointmentLedger(db *mongo.Database, log *slog.Logger) *AppointmentLedger {
	return &AppointmentLedger{
		coll: db.Collection(AppointmentsCollection),
		log:  log,
		now:  utcNow,
	}
}

func (l *AppointmentLedger) newAppointment(doctorID, date, timeSlot string) model.Appointment {
	now := l.now()
	return model.Appointment{
		DoctorID:  doctorID,
		Date:      date,
		TimeSlot:  timeSlot,
		Status:    model.StatusBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *AppointmentLedger) Create(ctx context.Context, doctorID, date, timeSlot string) (string, error) {
	res, err := l.coll.InsertOne(ctx, l.newAppointment(doctorID, date, timeSlot))
	if err != nil {
		return "", fmt.Errorf("insert appointment: %w", err)
	}
	return insertedHex(res)
}

// List returns every appointment in natural store order.
func (l *AppointmentLedger) List(ctx context.Context) ([]model.Appointment, error) {
	cur, err := l.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}

	out := []model.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return out, nil
}

// Replace deletes the appointment and inserts a new one under a fresh id.
// Nothing is inserted unless exactly one record was deleted. If the insert
// fails, the deleted record is put back.
func (l *AppointmentLedger) Replace(ctx context.Context, id, doctorID, date, timeSlot string) (string, error) {
	oid, err := parseID(id)
	if err != nil {
		return "", err
	}

	var existing model.Appointment
	err = l.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find appointment: %w", err)
	}

	del, err := l.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return "", fmt.Errorf("delete appointment: %w", err)
	}
	if del.DeletedCount != 1 {
		// removed by someone else between find and delete
		return "", ErrNotFound
	}

	res, err := l.coll.InsertOne(ctx, l.newAppointment(doctorID, date, timeSlot))
	if err != nil {
		insertErr := fmt.Errorf("insert replacement appointment: %w", err)
		if _, rerr := l.coll.InsertOne(context.WithoutCancel(ctx), existing); rerr != nil {
			if l.log != nil {
				l.log.Error("appointment lost during replace",
					slog.String("appointment_id", id),
					slog.String("insert_error", err.Error()),
					slog.String("restore_error", rerr.Error()),
				)
			}
			return "", errors.Join(insertErr, fmt.Errorf("restore appointment: %w", rerr))
		}
		return "", insertErr
	}
	return insertedHex(res)
}

// Delete removes the appointment and reports whether a record was removed.
func (l *AppointmentLedger) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	res, err := l.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}
