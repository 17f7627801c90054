package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

// jsonCompletion is a completion plus the period key label it was recorded under
type jsonCompletion struct {
	models.Completion
	PeriodKey string `json:"period_key"`
}

type Store struct {
	Version     int                     `json:"version"`
	Settings    map[string]string       `json:"settings"`
	Habits      map[string]models.Habit `json:"habits"`
	Completions []jsonCompletion        `json:"completions"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version: 1,
		Settings: map[string]string{
			constants.SettingTimezone: constants.DefaultTimezone,
		},
		Habits: make(map[string]models.Habit),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitual init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Settings == nil {
		s.store.Settings = make(map[string]string)
	}
	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	return writeStore(s.path, s.store)
}

// commit writes next and only then makes it the in-memory state
func (s *JSONStore) commit(next *Store) error {
	if err := writeStore(s.path, next); err != nil {
		return err
	}
	s.store = next
	return nil
}

func writeStore(path string, st *Store) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (st *Store) clone() *Store {
	next := &Store{
		Version:     st.Version,
		Settings:    make(map[string]string, len(st.Settings)),
		Habits:      make(map[string]models.Habit, len(st.Habits)),
		Completions: make([]jsonCompletion, len(st.Completions)),
	}
	for k, v := range st.Settings {
		next.Settings[k] = v
	}
	for k, v := range st.Habits {
		next.Habits[k] = v
	}
	copy(next.Completions, st.Completions)
	return next
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSetting(key string) (string, error) {
	if err := s.loaded(); err != nil {
		return "", err
	}
	value, ok := s.store.Settings[key]
	if !ok {
		return "", apperrors.NewNotFoundError("setting", key)
	}
	return value, nil
}

func (s *JSONStore) SaveSetting(key, value string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	next := s.store.clone()
	next.Settings[key] = value
	return s.commit(next)
}

func (s *JSONStore) AddHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, exists := s.store.Habits[habit.ID]; exists {
		return fmt.Errorf("habit id %s already exists", habit.ID)
	}
	for _, h := range s.store.Habits {
		if h.Name == habit.Name {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateHabit, habit.Name)
		}
	}

	habit.CreatedAt = habit.CreatedAt.UTC()
	next := s.store.clone()
	next.Habits[habit.ID] = habit
	return s.commit(next)
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	habit, ok := s.store.Habits[id]
	if !ok {
		return models.Habit{}, apperrors.NewNotFoundError("habit", id)
	}
	return habit, nil
}

func (s *JSONStore) GetHabitByName(name string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	for _, h := range s.store.Habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, apperrors.NewNotFoundError("habit", name)
}

func (s *JSONStore) GetAllHabits() ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, h := range s.store.Habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) DeleteHabit(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Habits[id]; !ok {
		return apperrors.NewNotFoundError("habit", id)
	}

	next := s.store.clone()
	delete(next.Habits, id)
	kept := next.Completions[:0]
	for _, c := range next.Completions {
		if c.HabitID != id {
			kept = append(kept, c)
		}
	}
	next.Completions = kept

	return s.commit(next)
}

func (s *JSONStore) AddCompletion(c models.Completion, periodKey string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Habits[c.HabitID]; !ok {
		return apperrors.NewNotFoundError("habit", c.HabitID)
	}
	for _, existing := range s.store.Completions {
		if existing.ID == c.ID {
			return fmt.Errorf("completion id %s already exists", c.ID)
		}
	}

	c.CompletedAt = c.CompletedAt.UTC()
	next := s.store.clone()
	next.Completions = append(next.Completions, jsonCompletion{Completion: c, PeriodKey: periodKey})
	return s.commit(next)
}

func (s *JSONStore) GetCompletions(habitID string) ([]models.Completion, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	completions := []models.Completion{}
	for _, c := range s.store.Completions {
		if c.HabitID == habitID {
			completions = append(completions, c.Completion)
		}
	}
	sortCompletions(completions)
	return completions, nil
}

func (s *JSONStore) GetAllCompletions() ([]models.Completion, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	completions := make([]models.Completion, 0, len(s.store.Completions))
	for _, c := range s.store.Completions {
		completions = append(completions, c.Completion)
	}
	sortCompletions(completions)
	return completions, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func sortCompletions(completions []models.Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		return completions[i].CompletedAt.Before(completions[j].CompletedAt)
	})
}
