package model

import "time"

// User tracks the trust score accumulated from votes on the user's reviews.
type User struct {
	ID        string    `json:"-" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required"`
	Name      string    `json:"name,omitempty" bson:"name"`
	Trust     int       `json:"trust" bson:"trust"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}
