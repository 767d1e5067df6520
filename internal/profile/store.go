package profile

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store is a sqlite-backed Gateway.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database lives per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `id, name, email, age, gender, location,
	height, weight, sleep, exercise_frequency, exercise_type, allergies,
	alcohol, smoking, stress, meal_type, sugar_intake, created_at`

// Create validates p, assigns an id and creation time, and stores it.
func (s *Store) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	p.ID = uuid.NewString()
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	l := p.Lifestyle
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Email, p.Age, p.Gender, p.Location,
		l.Height, l.Weight, l.Sleep, l.ExerciseFrequency, l.ExerciseType, l.Allergies,
		l.Alcohol, l.Smoking, l.Stress, l.MealType, l.SugarIntake, p.CreatedAt.UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return Profile{}, ErrDuplicateEmail
		}
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}

	return p, nil
}

// Fetch implements Gateway.
func (s *Store) Fetch(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}

// List returns all profiles, newest first.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM profiles ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var (
		p         Profile
		createdAt int64
	)
	l := &p.Lifestyle
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Age, &p.Gender, &p.Location,
		&l.Height, &l.Weight, &l.Sleep, &l.ExerciseFrequency, &l.ExerciseType, &l.Allergies,
		&l.Alcohol, &l.Smoking, &l.Stress, &l.MealType, &l.SugarIntake, &createdAt)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return p, nil
}
