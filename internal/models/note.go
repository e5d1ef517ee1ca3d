package models

import "time"

// Note is a persistent free-text annotation on a job. Notes are append-only:
// written once, never updated, deletable by id. A note may reference a job
// that is no longer present in the latest load; the record is retained for
// audit.
type Note struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	JobID     string `gorm:"size:64;not null;index"`
	Text      string `gorm:"type:text;not null"`
	CreatedBy string `gorm:"size:64;default:User"`
	CreatedAt time.Time
}
