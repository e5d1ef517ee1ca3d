// Package notes is the append-only side-store for per-job annotations.
//
// Notes live independently of load cycles: appending is a single atomic
// insert, records are immutable once written, and a note may outlive the
// job it references. The pipeline only ever reads note counts; it never
// writes here.
package notes

import (
	"fmt"
	"strings"

	"github.com/henrietta/dispatch/internal/models"
	"gorm.io/gorm"
)

// Store wraps the notes database.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store over an opened notes database.
func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Append inserts one note and returns its id. jobID and text are required;
// author defaults to "User". The jobID is not validated against the current
// record set; notes on vanished jobs are allowed.
func (s *Store) Append(jobID, text, author string) (uint, error) {
	jobID = strings.TrimSpace(jobID)
	text = strings.TrimSpace(text)
	if jobID == "" {
		return 0, fmt.Errorf("notes: job id is required")
	}
	if text == "" {
		return 0, fmt.Errorf("notes: text is required")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = "User"
	}

	n := models.Note{JobID: jobID, Text: text, CreatedBy: author}
	if err := s.db.Create(&n).Error; err != nil {
		return 0, fmt.Errorf("notes: append for job %s: %w", jobID, err)
	}
	return n.ID, nil
}

// ListFor returns all notes for a job, newest first.
func (s *Store) ListFor(jobID string) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.Where("job_id = ?", strings.TrimSpace(jobID)).
		Order("created_at DESC, id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("notes: list for job %s: %w", jobID, err)
	}
	return notes, nil
}

// ListAll returns every note in the store, newest first.
func (s *Store) ListAll() ([]models.Note, error) {
	var notes []models.Note
	if err := s.db.Order("created_at DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("notes: list all: %w", err)
	}
	return notes, nil
}

// Delete removes a note by id. Deleting a nonexistent id is an error so
// callers can report a bad id instead of silently succeeding.
func (s *Store) Delete(id uint) error {
	res := s.db.Delete(&models.Note{}, id)
	if res.Error != nil {
		return fmt.Errorf("notes: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notes: note %d not found", id)
	}
	return nil
}

// CountFor returns the note count for one job.
func (s *Store) CountFor(jobID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Note{}).
		Where("job_id = ?", strings.TrimSpace(jobID)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("notes: count for job %s: %w", jobID, err)
	}
	return count, nil
}

// Counts returns per-job note counts for the whole store, for merging into
// the displayed view.
func (s *Store) Counts() (map[string]int64, error) {
	type row struct {
		JobID string
		Count int64
	}
	var rows []row
	err := s.db.Model(&models.Note{}).
		Select("job_id, count(*) as count").
		Group("job_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("notes: counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.JobID] = r.Count
	}
	return counts, nil
}
