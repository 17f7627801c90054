package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) AddCompletion(c models.Completion, periodKey string) error {
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, period_key, completed_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.HabitID, periodKey, c.CompletedAt.UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM completions
		WHERE habit_id = ? ORDER BY completed_at, rowid`, habitID)
	if err != nil {
		return nil, err
	}
	return scanCompletions(rows)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	exists, err := s.tableExists("completions")
	if err != nil {
		return nil, err
	}
	if !exists {
		return []models.Completion{}, nil
	}

	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM completions
		ORDER BY completed_at, rowid`)
	if err != nil {
		return nil, err
	}
	return scanCompletions(rows)
}

func scanCompletions(rows *sql.Rows) ([]models.Completion, error) {
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		var completedAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &completedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		c.CompletedAt = t
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
