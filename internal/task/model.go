// Package task owns the per-account ordered task collection.
package task

import "time"

// Task is one entry in an account's collection. IDs are small integers
// issued from the account's own counter and are unique within that account
// for its whole lifetime.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
