package entity

import "time"

// User represents a row in the `users` table. ID and CreatedAt are assigned by the store;
// CreatedAt is nil for rows stored without a timestamp.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
}
