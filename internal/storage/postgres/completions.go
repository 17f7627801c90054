package postgres

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) AddCompletion(c models.Completion, periodKey string) error {
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, period_key, completed_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.HabitID, periodKey, c.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM completions
		WHERE habit_id = $1 ORDER BY completed_at, id`, habitID)
	if err != nil {
		return nil, err
	}
	return scanCompletions(rows)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, completed_at FROM completions
		ORDER BY completed_at, id`)
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
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedAt); err != nil {
			return nil, err
		}
		c.CompletedAt = c.CompletedAt.UTC()
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
