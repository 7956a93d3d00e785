package model

import "time"

// ReservationLock is an advisory lock serializing check-and-reserve on
// one tool. The unique _id insert is the mutual exclusion: a second
// concurrent reservation for the same tool fails with a duplicate key.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
