package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eurec4a/cloudseg/internal/trajectory"
)

// ErrNotFound is returned when a trajectory id has no row.
var ErrNotFound = errors.New("trajectory not found")

// Trajectory is the stored metadata for one ingested flight leg.
type Trajectory struct {
	TrajectoryID string `json:"trajectory_id"`
	Name         string `json:"name"`
	Source       string `json:"source,omitempty"`
	Pixels       int    `json:"pixels"`
	CreatedAt    int64  `json:"created_at"`
}

// TrajectoryStore persists trajectories and their per-pixel samples. Only the
// raw input is written; segmentation results are recomputed on demand.
type TrajectoryStore struct {
	db *DB
}

// NewTrajectoryStore creates a TrajectoryStore backed by the given database.
func NewTrajectoryStore(db *DB) *TrajectoryStore {
	return &TrajectoryStore{db: db}
}

// Save validates the series and writes it together with a metadata row.
// A fresh trajectory id is generated for every call.
func (s *TrajectoryStore) Save(series *trajectory.Series, source string) (*Trajectory, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	traj := &Trajectory{
		TrajectoryID: uuid.New().String(),
		Name:         series.Name,
		Source:       source,
		Pixels:       series.Pixels(),
		CreatedAt:    time.Now().UnixNano(),
	}

	err := retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO trajectories (trajectory_id, name, source, created_at)
			VALUES (?, ?, ?, ?)`,
			traj.TrajectoryID, traj.Name, traj.Source, traj.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert trajectory: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO trajectory_samples (trajectory_id, pixel, cloud_flag, idx, value)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("prepare sample insert: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < series.Pixels(); i++ {
			var idx, value interface{}
			if series.HasIndex() {
				idx = series.Index[i]
			}
			if series.HasValues() {
				value = series.Values[i]
			}
			if _, err := stmt.Exec(traj.TrajectoryID, i, series.Flags[i], idx, value); err != nil {
				tx.Rollback()
				return fmt.Errorf("insert sample %d: %w", i, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit save tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return traj, nil
}

// Get returns the metadata and reconstructed series for a trajectory.
func (s *TrajectoryStore) Get(trajectoryID string) (*Trajectory, *trajectory.Series, error) {
	row := s.db.QueryRow(`
		SELECT trajectory_id, name, source, created_at
		FROM trajectories
		WHERE trajectory_id = ?`, trajectoryID)

	var traj Trajectory
	var source sql.NullString
	if err := row.Scan(&traj.TrajectoryID, &traj.Name, &source, &traj.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("trajectory %s: %w", trajectoryID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("scan trajectory: %w", err)
	}
	if source.Valid {
		traj.Source = source.String
	}

	rows, err := s.db.Query(`
		SELECT cloud_flag, idx, value
		FROM trajectory_samples
		WHERE trajectory_id = ?
		ORDER BY pixel`, trajectoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	series := &trajectory.Series{Name: traj.Name}
	var idxVals, valueVals []sql.NullFloat64
	for rows.Next() {
		var flag float64
		var idx, value sql.NullFloat64
		if err := rows.Scan(&flag, &idx, &value); err != nil {
			return nil, nil, fmt.Errorf("scan sample: %w", err)
		}
		series.Flags = append(series.Flags, flag)
		idxVals = append(idxVals, idx)
		valueVals = append(valueVals, value)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate samples: %w", err)
	}

	if col := collectColumn(idxVals); col != nil {
		series.Index = col
	}
	if col := collectColumn(valueVals); col != nil {
		series.Values = col
	}

	traj.Pixels = series.Pixels()
	return &traj, series, nil
}

// List returns all trajectories, newest first.
func (s *TrajectoryStore) List() ([]*Trajectory, error) {
	rows, err := s.db.Query(`
		SELECT t.trajectory_id, t.name, t.source, t.created_at, COUNT(s.pixel)
		FROM trajectories t
		LEFT JOIN trajectory_samples s ON s.trajectory_id = t.trajectory_id
		GROUP BY t.trajectory_id
		ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query trajectories: %w", err)
	}
	defer rows.Close()

	var trajs []*Trajectory
	for rows.Next() {
		var traj Trajectory
		var source sql.NullString
		if err := rows.Scan(&traj.TrajectoryID, &traj.Name, &source, &traj.CreatedAt, &traj.Pixels); err != nil {
			return nil, fmt.Errorf("scan trajectory row: %w", err)
		}
		if source.Valid {
			traj.Source = source.String
		}
		trajs = append(trajs, &traj)
	}
	return trajs, rows.Err()
}

// Delete removes a trajectory and its samples.
func (s *TrajectoryStore) Delete(trajectoryID string) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin delete tx: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM trajectory_samples WHERE trajectory_id = ?`, trajectoryID); err != nil {
			tx.Rollback()
			return fmt.Errorf("delete samples: %w", err)
		}

		result, err := tx.Exec(`DELETE FROM trajectories WHERE trajectory_id = ?`, trajectoryID)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("delete trajectory: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			tx.Rollback()
			return fmt.Errorf("trajectory %s: %w", trajectoryID, ErrNotFound)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit delete tx: %w", err)
		}
		return nil
	})
}

// collectColumn turns a fully populated nullable column into a plain slice.
// Columns written without the optional data come back as all NULLs and yield
// nil, so the reconstructed series drops them cleanly.
func collectColumn(vals []sql.NullFloat64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if !v.Valid {
			return nil
		}
		out[i] = v.Float64
	}
	return out
}
