package bookings

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	storebookings "github.com/roamtours/tourdesk/internal/store/bookings"
)

// importNamespace seeds deterministic ids for imported records so running the
// same export twice does not duplicate bookings.
var importNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// LegacyBooking mirrors the loosely-typed records exported by the previous
// booking backend, where field names drifted between views (booking_date vs
// created_at vs createdAt, endDate vs end_date, canceled vs cancelled).
// ParseLegacyBooking is the single place that variance is resolved; nothing
// past this boundary branches on field presence.
type LegacyBooking struct {
	ID          string      `json:"_id"`
	Status      string      `json:"status"`
	BookingDate string      `json:"booking_date"`
	CreatedAt   string      `json:"created_at"`
	CreatedAtCC string      `json:"createdAt"`
	TravelDate  string      `json:"travel_date"`
	TourDate    string      `json:"tour_date"`
	EndDate     string      `json:"endDate"`
	EndDateSC   string      `json:"end_date"`
	LastUpdate  string      `json:"last_update"`
	TotalPrice  float64     `json:"totalPrice"`
	Paid        bool        `json:"paid"`
	Adults      int         `json:"quantity_nguoiLon"`
	Children    int         `json:"quantity_treEm"`
	TourID      interface{} `json:"tour_id"`
	UserID      interface{} `json:"user_id"`
}

var ErrEmptyRecord = errors.New("legacy record has no status and no dates")

// Date layouts observed in legacy exports, tried in order.
var legacyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLegacyBooking maps one legacy JSON record onto the canonical booking
// schema. Unparsable dates are treated as absent, mirroring the tolerant
// reads of the old dashboard; a record with nothing usable at all is
// rejected.
func ParseLegacyBooking(raw json.RawMessage, now time.Time) (*storebookings.Booking, error) {
	var rec LegacyBooking
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	created := firstLegacyDate(rec.BookingDate, rec.CreatedAt, rec.CreatedAtCC)
	travel := parseLegacyDate(rec.TravelDate)
	tourDate := parseLegacyDate(rec.TourDate)
	end := firstLegacyDate(rec.EndDate, rec.EndDateSC)

	if rec.Status == "" && created == nil && travel == nil && tourDate == nil && end == nil {
		return nil, ErrEmptyRecord
	}

	status := storebookings.CanonicalStatus(rec.Status)
	if status == "" {
		status = storebookings.StatusPending
	}

	b := &storebookings.Booking{
		ID:         importedID(rec.ID),
		TourID:     legacyID(rec.TourID),
		UserID:     legacyID(rec.UserID),
		Status:     status,
		TotalPrice: rec.TotalPrice,
		Paid:       rec.Paid,
		Adults:     rec.Adults,
		Children:   rec.Children,
		TravelDate: travel,
		TourDate:   tourDate,
		EndDate:    end,
	}

	if created != nil {
		b.CreatedAt = *created
	} else {
		b.CreatedAt = now
	}
	if lu := parseLegacyDate(rec.LastUpdate); lu != nil {
		b.UpdatedAt = *lu
	} else {
		b.UpdatedAt = b.CreatedAt
	}

	if user, ok := rec.UserID.(map[string]interface{}); ok {
		b.FirstName, _ = user["first_name"].(string)
		b.LastName, _ = user["last_name"].(string)
		b.Phone, _ = user["phone"].(string)
	}

	return b, nil
}

func parseLegacyDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func firstLegacyDate(candidates ...string) *time.Time {
	for _, s := range candidates {
		if t := parseLegacyDate(s); t != nil {
			return t
		}
	}
	return nil
}

// importedID maps a legacy record id onto a stable UUID. Records without an
// id get a fresh one at insert time.
func importedID(id string) string {
	if id == "" {
		return ""
	}
	return uuid.NewSHA1(importNamespace, []byte(id)).String()
}

// legacyID accepts either an opaque id string or a pre-populated nested
// object carrying "_id".
func legacyID(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		id, _ := val["_id"].(string)
		return id
	}
	return ""
}
