package models

import "time"

// KnowledgePoint is the smallest taggable unit of curriculum content a
// question belongs to. Immutable reference data owned by the catalog.
type KnowledgePoint struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject" db:"subject"`
	Chapter   string    `json:"chapter" db:"chapter"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
