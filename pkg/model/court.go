package model

import "time"

// Court is a basketball court sourced from OpenStreetMap and enriched by
// user edits. CourtID is the stable OSM element id, not the Mongo _id.
type Court struct {
	ID           string    `json:"-" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CourtID      string    `json:"court_id" bson:"court_id" validate:"required"`
	Name         string    `json:"name,omitempty" bson:"name" validate:"omitempty,max=200"`
	Lat          float64   `json:"lat" bson:"lat" validate:"required,latitude"`
	Lon          float64   `json:"lon" bson:"lon" validate:"required,longitude"`
	Hoops        int       `json:"hoops,omitempty" bson:"hoops" validate:"omitempty,min=0,max=50"`
	Surface      string    `json:"surface,omitempty" bson:"surface" validate:"omitempty,max=50"`
	Netting      int       `json:"netting,omitempty" bson:"netting" validate:"omitempty,min=0,max=3"`
	RimType      int       `json:"rim_type,omitempty" bson:"rim_type" validate:"omitempty,min=0,max=3"`
	RimHeight    float64   `json:"rim_height,omitempty" bson:"rim_height" validate:"omitempty,min=0,max=5"`
	Address      string    `json:"address,omitempty" bson:"address" validate:"omitempty,max=300"`
	Amenity      string    `json:"amenity,omitempty" bson:"amenity" validate:"omitempty,max=100"`
	Leisure      string    `json:"leisure,omitempty" bson:"leisure" validate:"omitempty,max=100"`
	Website      string    `json:"website,omitempty" bson:"website" validate:"omitempty,max=300"`
	Phone        string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,max=30"`
	OpeningHours string    `json:"opening_hours,omitempty" bson:"opening_hours" validate:"omitempty,max=500"`
	FetchedAt    time.Time `json:"-" bson:"fetched_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" bson:"updated_at"`

	// DistanceKm is filled per request on spatial queries, never stored.
	DistanceKm float64 `json:"distance_km,omitempty" bson:"-"`
}

// CourtUpdate carries the user-editable subset of Court fields. Pointer
// fields distinguish "not sent" from zero values.
type CourtUpdate struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Hoops        *int     `json:"hoops,omitempty" validate:"omitempty,min=0,max=50"`
	Surface      *string  `json:"surface,omitempty" validate:"omitempty,max=50"`
	Netting      *int     `json:"netting,omitempty" validate:"omitempty,min=0,max=3"`
	RimType      *int     `json:"rim_type,omitempty" validate:"omitempty,min=0,max=3"`
	RimHeight    *float64 `json:"rim_height,omitempty" validate:"omitempty,min=0,max=5"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=300"`
	Amenity      *string  `json:"amenity,omitempty" validate:"omitempty,max=100"`
	Website      *string  `json:"website,omitempty" validate:"omitempty,max=300"`
	Phone        *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	OpeningHours *string  `json:"opening_hours,omitempty" validate:"omitempty,max=500,opening_hours"`
}

// IsEmpty reports whether no updatable field was sent.
func (u *CourtUpdate) IsEmpty() bool {
	return u.Name == nil && u.Hoops == nil && u.Surface == nil &&
		u.Netting == nil && u.RimType == nil && u.RimHeight == nil &&
		u.Address == nil && u.Amenity == nil && u.Website == nil &&
		u.Phone == nil && u.OpeningHours == nil
}
