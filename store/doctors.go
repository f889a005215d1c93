package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BMDarkLight/Simple-Doctor-API/model"
)

// DoctorDirectory stores doctor profiles in the doctors collection.
type DoctorDirectory struct {
	coll *mongo.Collection
	log  *slog.Logger
	now  func() time.Time
}

func NewDoctorDirectory(db *mongo.Database, log *slog.Logger) *DoctorDirectory {
	return &DoctorDirectory{
		coll: db.Collection(DoctorsCollection),
		log:  log,
		now:  utcNow,
	}
}

// Create persists a doctor profile and returns its hex id. The day field of
// each slot entry is ignored; when a date repeats, its last slot list wins.
func (d *DoctorDirectory) Create(ctx context.Context, name, specialty string, slots []model.SlotInput) (string, error) {
	available, err := slotsDocument(slots)
	if err != nil {
		return "", err
	}

	now := d.now()
	doc := model.Doctor{
		Name:           name,
		Specialty:      specialty,
		AvailableSlots: available,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := d.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert doctor: %w", err)
	}
	return insertedHex(res)
}

// Get loads one doctor and rebuilds the slot list with weekdays computed from
// each stored date.
func (d *DoctorDirectory) Get(ctx context.Context, id string) (model.DoctorView, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.DoctorView{}, err
	}

	var doc model.Doctor
	err = d.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.DoctorView{}, ErrNotFound
	}
	if err != nil {
		return model.DoctorView{}, fmt.Errorf("find doctor: %w", err)
	}
	return d.view(doc), nil
}

// List returns every doctor in creation order.
func (d *DoctorDirectory) List(ctx context.Context) ([]model.DoctorView, error) {
	cur, err := d.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}

	var docs []model.Doctor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}

	out := make([]model.DoctorView, 0, len(docs))
	for _, doc := range docs {
		out = append(out, d.view(doc))
	}
	return out, nil
}

func (d *DoctorDirectory) view(doc model.Doctor) model.DoctorView {
	slots := make([]model.DaySlots, 0, len(doc.AvailableSlots))
	for _, e := range doc.AvailableSlots {
		day := ""
		if t, err := parseDate(e.Key); err == nil {
			day = t.Weekday().String()
		} else if d.log != nil {
			d.log.Warn("stored slot date does not parse", slog.String("doctor_id", doc.ID.Hex()), slog.String("date", e.Key))
		}
		slots = append(slots, model.DaySlots{Date: e.Key, Day: day, Slots: slotLabels(e.Value)})
	}
	// ISO dates order lexicographically
	slices.SortStableFunc(slots, func(a, b model.DaySlots) int {
		return strings.Compare(a.Date, b.Date)
	})

	return model.DoctorView{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		Specialty:      doc.Specialty,
		AvailableSlots: slots,
	}
}

func slotsDocument(slots []model.SlotInput) (bson.D, error) {
	out := bson.D{}
	seen := make(map[string]int, len(slots))
	for _, s := range slots {
		if _, err := parseDate(s.Date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s.Date)
		}
		labels := s.Slots
		if labels == nil {
			labels = []string{}
		}
		if i, ok := seen[s.Date]; ok {
			out[i].Value = labels
			continue
		}
		seen[s.Date] = len(out)
		out = append(out, bson.E{Key: s.Date, Value: labels})
	}
	return out, nil
}

func slotLabels(v any) []string {
	var raw []any
	switch vv := v.(type) {
	case []string:
		return vv
	case primitive.A:
		raw = vv
	case []any:
		raw = vv
	default:
		return []string{}
	}

	out := make([]string, 0, len(raw))
	for _, x := range raw {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
