package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"threecs/internal/assessment/models"
	"threecs/internal/guidance"
	"threecs/internal/scoring"
	"threecs/pkg/platform/sentinel"
	"threecs/pkg/platform/tx"
)

// dialect isolates the few differences between Postgres and SQLite.
type dialect struct {
	name string
	// bind rewrites "?" placeholders into the driver's native form.
	bind func(query string) string
	// translate maps driver errors onto sentinel errors.
	translate func(err error) error
}

// SQLStore persists assessments in a relational database.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *SQLStore) q(query string) string {
	return s.dialect.bind(query)
}

func (s *SQLStore) execer(ctx context.Context) tx.Execer {
	return tx.ExecerFrom(ctx, s.db)
}

// Create inserts the assessment and all of its people atomically.
func (s *SQLStore) Create(ctx context.Context, a *models.Assessment, people []*models.Person) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		ex := s.execer(ctx)
		_, err := ex.ExecContext(ctx, s.q(`
			INSERT INTO assessments (id, session_token, assessor_email, created_at)
			VALUES (?, ?, ?, ?)`),
			a.ID, a.SessionToken, a.AssessorEmail, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert assessment: %w", s.dialect.translate(err))
		}

		for _, p := range people {
			_, err := ex.ExecContext(ctx, s.q(`
				INSERT INTO assessment_people (
					id, assessment_id, position, person_name, culture, competence, commitment,
					final_rating, grade, guidance_key, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				p.ID, p.AssessmentID, p.Position, p.Name, p.Culture, p.Competence, p.Commitment,
				p.FinalRating, string(p.Grade), string(p.GuidanceKey), p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert person: %w", s.dialect.translate(err))
			}
		}
		return nil
	})
}

// FindByToken loads an assessment by its session token.
func (s *SQLStore) FindByToken(ctx context.Context, token uuid.UUID) (*models.Assessment, error) {
	var a models.Assessment
	err := s.execer(ctx).QueryRowContext(ctx, s.q(`
		SELECT id, session_token, assessor_email, created_at
		FROM assessments WHERE session_token = ?`), token,
	).Scan(&a.ID, &a.SessionToken, &a.AssessorEmail, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find assessment by token: %w", err)
	}
	return &a, nil
}

// ListPeople returns the people of an assessment in submission order.
func (s *SQLStore) ListPeople(ctx context.Context, assessmentID uuid.UUID) ([]models.PersonSummary, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, s.q(`
		SELECT p.id, p.assessment_id, p.position, p.person_name, p.culture, p.competence, p.commitment,
			p.final_rating, p.grade, p.guidance_key, p.created_at,
			EXISTS (SELECT 1 FROM pdf_artifacts a WHERE a.assessment_person_id = p.id)
		FROM assessment_people p
		WHERE p.assessment_id = ?
		ORDER BY p.created_at, p.position`), assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var out []models.PersonSummary
	for rows.Next() {
		var summary models.PersonSummary
		if err := scanPerson(rows, &summary.Person, &summary.HasPDF); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return out, nil
}

// FindPerson loads a person that belongs to assessmentID.
func (s *SQLStore) FindPerson(ctx context.Context, assessmentID, personID uuid.UUID) (*models.Person, error) {
	row := s.execer(ctx).QueryRowContext(ctx, s.q(`
		SELECT id, assessment_id, position, person_name, culture, competence, commitment,
			final_rating, grade, guidance_key, created_at
		FROM assessment_people
		WHERE id = ? AND assessment_id = ?`), personID, assessmentID)

	var p models.Person
	if err := scanPerson(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return &p, nil
}

// SaveArtifact records where a person's PDF was stored.
func (s *SQLStore) SaveArtifact(ctx context.Context, artifact models.PDFArtifact) error {
	_, err := s.execer(ctx).ExecContext(ctx, s.q(`
		INSERT INTO pdf_artifacts (assessment_person_id, storage_path, created_at)
		VALUES (?, ?, ?)`),
		artifact.PersonID, artifact.StoragePath, artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save artifact: %w", s.dialect.translate(err))
	}
	return nil
}

// FindArtifact returns the artifact recorded for a person.
func (s *SQLStore) FindArtifact(ctx context.Context, personID uuid.UUID) (*models.PDFArtifact, error) {
	var a models.PDFArtifact
	err := s.execer(ctx).QueryRowContext(ctx, s.q(`
		SELECT assessment_person_id, storage_path, created_at
		FROM pdf_artifacts WHERE assessment_person_id = ?`), personID,
	).Scan(&a.PersonID, &a.StoragePath, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find artifact: %w", err)
	}
	return &a, nil
}

// Ping checks database connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", s.dialect.name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner, p *models.Person, extra ...any) error {
	var grade, key string
	dest := []any{
		&p.ID, &p.AssessmentID, &p.Position, &p.Name, &p.Culture, &p.Competence, &p.Commitment,
		&p.FinalRating, &grade, &key, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	p.Grade = scoring.Grade(grade)
	p.GuidanceKey = guidance.Archetype(key)
	return nil
}
