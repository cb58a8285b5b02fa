package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corevia/corevia/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSession writes one session row. The date column is assigned by
// the database at insert time and returned, so "when it was saved" is
// the server's clock, not the client's. Sessions are never updated or
// deleted afterwards.
func (db *DB) InsertSession(ctx context.Context, id uuid.UUID, draft models.SessionDraft, isAllSuccess bool) (time.Time, error) {
	mainJSON, err := json.Marshal(draft.MainExercise)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding main exercise: %w", err)
	}
	accJSON, err := json.Marshal(draft.AccessoryExercises)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding accessory exercises: %w", err)
	}

	var date time.Time
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, part, main_exercise, accessory_exercises, notes, is_all_success)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING date`,
		id, draft.UserID, draft.Part, mainJSON, accJSON, draft.Notes, isAllSuccess).Scan(&date)
	if err != nil {
		return time.Time{}, fmt.Errorf("inserting session: %w", err)
	}
	return date, nil
}

// InsertSessionAt writes a session with an explicit date. Used by the
// bulk importer, where the recorded date comes from the export file.
func (db *DB) InsertSessionAt(ctx context.Context, s models.Session) error {
	mainJSON, err := json.Marshal(s.MainExercise)
	if err != nil {
		return fmt.Errorf("encoding main exercise: %w", err)
	}
	accJSON, err := json.Marshal(s.AccessoryExercises)
	if err != nil {
		return fmt.Errorf("encoding accessory exercises: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, date, part, main_exercise, accessory_exercises, notes, is_all_success)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT DO NOTHING`,
		s.ID, s.UserID, s.Date, s.Part, mainJSON, accJSON, s.Notes, s.IsAllSuccess)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// LatestSession retrieves the most recent session for a user and part,
// or nil when none exists.
func (db *DB) LatestSession(ctx context.Context, userID string, part models.Part) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, date, part, main_exercise, accessory_exercises, notes, is_all_success
		 FROM sessions
		 WHERE user_id = $1 AND part = $2
		 ORDER BY date DESC
		 LIMIT 1`,
		userID, part)

	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest session: %w", err)
	}
	return s, nil
}

// SessionsByPart retrieves a user's full history for one part, oldest
// first, as plotted by the progress graph.
func (db *DB) SessionsByPart(ctx context.Context, userID string, part models.Part) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, date, part, main_exercise, accessory_exercises, notes, is_all_success
		 FROM sessions
		 WHERE user_id = $1 AND part = $2
		 ORDER BY date ASC`,
		userID, part)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var (
		s        models.Session
		mainJSON []byte
		accJSON  []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Date, &s.Part, &mainJSON, &accJSON, &s.Notes, &s.IsAllSuccess); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mainJSON, &s.MainExercise); err != nil {
		return nil, fmt.Errorf("decoding main exercise: %w", err)
	}
	if len(accJSON) > 0 {
		if err := json.Unmarshal(accJSON, &s.AccessoryExercises); err != nil {
			return nil, fmt.Errorf("decoding accessory exercises: %w", err)
		}
	}
	return &s, nil
}
