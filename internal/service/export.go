package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
)

// SnapshotVersion tags exports so future format changes stay detectable.
const SnapshotVersion = 1

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidMode     = errors.New("import mode must be merge or replace")
)

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

func ParseImportMode(mode string) (ImportMode, error) {
	switch ImportMode(mode) {
	case ImportModeMerge, ImportModeReplace:
		return ImportMode(mode), nil
	case "":
		return ImportModeMerge, nil
	default:
		return "", ErrInvalidMode
	}
}

// Snapshot is the full export of a user's data.
type Snapshot struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Lists      []SnapshotList  `json:"lists"`
	Habits     []SnapshotHabit `json:"habits"`
}

type SnapshotList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type SnapshotHabit struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ListID      *string          `json:"list_id"`
	Order       int              `json:"order"`
	WeeklyGoal  int              `json:"weekly_goal"`
	Star        bool             `json:"star"`
	Completions []SnapshotRecord `json:"completions"`
}

type SnapshotRecord struct {
	Date string  `json:"date"`
	Done bool    `json:"done"`
	Note *string `json:"note,omitempty"`
}

// ExportService bulk-reads and bulk-writes a user's habits, lists and
// completion records. Imports run in a single transaction: either the
// whole snapshot is applied or nothing is.
type ExportService struct {
	db         *sqlx.DB
	habitRepo  repository.HabitRepository
	listRepo   repository.ListRepository
	recordRepo repository.RecordRepository
}

func NewExportService(
	db *sqlx.DB,
	habitRepo repository.HabitRepository,
	listRepo repository.ListRepository,
	recordRepo repository.RecordRepository,
) *ExportService {
	return &ExportService{
		db:         db,
		habitRepo:  habitRepo,
		listRepo:   listRepo,
		recordRepo: recordRepo,
	}
}

func (s *ExportService) Export(userID string) (*Snapshot, error) {
	lists, err := s.listRepo.Lists(userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.Habits(userID, repository.HabitFilter{})
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
		Lists:      make([]SnapshotList, 0, len(lists)),
		Habits:     make([]SnapshotHabit, 0, len(habits)),
	}

	for _, list := range lists {
		snapshot.Lists = append(snapshot.Lists, SnapshotList{
			ID:    list.ID,
			Name:  list.Name,
			Order: list.Order,
		})
	}

	for _, habit := range habits {
		records, err := s.recordRepo.ByHabit(habit.ID)
		if err != nil {
			return nil, err
		}

		sh := SnapshotHabit{
			ID:          habit.ID,
			Name:        habit.Name,
			ListID:      habit.ListID,
			Order:       habit.Order,
			WeeklyGoal:  habit.WeeklyGoal,
			Star:        habit.Star,
			Completions: make([]SnapshotRecord, 0, len(records)),
		}
		for _, r := range records {
			sh.Completions = append(sh.Completions, SnapshotRecord{
				Date: r.Day,
				Done: r.Done,
				Note: r.Note,
			})
		}
		snapshot.Habits = append(snapshot.Habits, sh)
	}

	return snapshot, nil
}

// validateSnapshot rejects malformed snapshots before any row is
// written, so a validation failure never leaves partial data behind.
func validateSnapshot(snapshot *Snapshot) error {
	if snapshot.Version < 1 || snapshot.Version > SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snapshot.Version)
	}

	for i, list := range snapshot.Lists {
		if list.Name == "" {
			return fmt.Errorf("%w: list %d has no name", ErrInvalidSnapshot, i)
		}
	}

	for i, habit := range snapshot.Habits {
		if habit.Name == "" {
			return fmt.Errorf("%w: habit %d has no name", ErrInvalidSnapshot, i)
		}
		for _, record := range habit.Completions {
			_, err := time.Parse(model.DayFormat, record.Date)
			if err != nil {
				return fmt.Errorf("%w: habit %q has unparseable date %q", ErrInvalidSnapshot, habit.Name, record.Date)
			}
		}
	}

	return nil
}

// Import applies a snapshot for the user. Merge mode upserts lists and
// habits by name and overlays their completion records; replace mode
// first removes everything the user has. Runs in one transaction.
func (s *ExportService) Import(userID string, snapshot *Snapshot, mode ImportMode) error {
	err := validateSnapshot(snapshot)
	if err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	if mode == ImportModeReplace {
		// Habits first so list deletion never detaches rows we are
		// about to drop anyway; records go via ON DELETE CASCADE.
		_, err = tx.Exec(`DELETE FROM habits WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to clear habits: %w", err)
		}
		_, err = tx.Exec(`DELETE FROM lists WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to clear lists: %w", err)
		}
	}

	listIDs, err := importLists(tx, userID, snapshot.Lists)
	if err != nil {
		return err
	}

	err = importHabits(tx, userID, snapshot.Habits, listIDs)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("snapshot imported",
		"user_id", userID,
		"mode", mode,
		"lists", len(snapshot.Lists),
		"habits", len(snapshot.Habits),
	)
	return nil
}

// importLists upserts snapshot lists by name and returns the mapping
// from snapshot list ID to database list ID.
func importLists(tx *sqlx.Tx, userID string, lists []SnapshotList) (map[string]string, error) {
	var existing []*model.List
	err := tx.Select(&existing, `SELECT * FROM lists WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	byName := make(map[string]string, len(existing))
	for _, list := range existing {
		byName[list.Name] = list.ID
	}

	ids := make(map[string]string, len(lists))
	now := time.Now()

	for _, list := range lists {
		if id, ok := byName[list.Name]; ok {
			ids[list.ID] = id
			continue
		}

		id := uuid.New().String()
		_, err = tx.Exec(
			`INSERT INTO lists (id, user_id, name, sort_order, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, userID, list.Name, list.Order, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to import list %q: %w", list.Name, err)
		}

		byName[list.Name] = id
		ids[list.ID] = id
	}

	return ids, nil
}

func importHabits(tx *sqlx.Tx, userID string, habits []SnapshotHabit, listIDs map[string]string) error {
	var existing []*model.Habit
	err := tx.Select(&existing, `SELECT * FROM habits WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	byName := make(map[string]string, len(existing))
	for _, habit := range existing {
		byName[habit.Name] = habit.ID
	}

	now := time.Now()

	for _, habit := range habits {
		var listID *string
		if habit.ListID != nil {
			if mapped, ok := listIDs[*habit.ListID]; ok {
				listID = &mapped
			}
		}

		habitID, exists := byName[habit.Name]
		if exists {
			_, err = tx.Exec(
				`UPDATE habits SET list_id = $1, sort_order = $2, weekly_goal = $3, star = $4, updated_at = $5
				 WHERE id = $6 AND user_id = $7`,
				listID, habit.Order, habit.WeeklyGoal, habit.Star, now, habitID, userID,
			)
		} else {
			habitID = uuid.New().String()
			byName[habit.Name] = habitID
			_, err = tx.Exec(
				`INSERT INTO habits (id, user_id, list_id, name, sort_order, weekly_goal, star, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				habitID, userID, listID, habit.Name, habit.Order, habit.WeeklyGoal, habit.Star, now, now,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to import habit %q: %w", habit.Name, err)
		}

		for _, record := range habit.Completions {
			_, err = tx.Exec(
				`INSERT INTO checked_records (id, habit_id, day, done, note, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (habit_id, day) DO UPDATE
				 SET done = excluded.done,
				     note = COALESCE(excluded.note, checked_records.note),
				     updated_at = excluded.updated_at`,
				uuid.New().String(), habitID, record.Date, record.Done, record.Note, now, now,
			)
			if err != nil {
				return fmt.Errorf("failed to import record %s for habit %q: %w", record.Date, habit.Name, err)
			}
		}
	}

	return nil
}
