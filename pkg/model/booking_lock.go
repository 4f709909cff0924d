package model

import "time"

// BookingLock is an advisory lock document. Its _id encodes what is being
// locked, so a second insert with the same key fails with a duplicate key
// error. A TTL index on expires_at removes locks left behind by crashes.
// Owner identifies the acquisition so only its holder can release it.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
