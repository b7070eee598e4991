package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"threecs/internal/assessment/models"
	"threecs/internal/guidance"
	"threecs/internal/platform/config"
	"threecs/internal/platform/database"
	"threecs/internal/scoring"
	"threecs/pkg/platform/sentinel"
)

// Store is the behavior shared by every backend.
type Store interface {
	Create(ctx context.Context, a *models.Assessment, people []*models.Person) error
	FindByToken(ctx context.Context, token uuid.UUID) (*models.Assessment, error)
	ListPeople(ctx context.Context, assessmentID uuid.UUID) ([]models.PersonSummary, error)
	FindPerson(ctx context.Context, assessmentID, personID uuid.UUID) (*models.Person, error)
	SaveArtifact(ctx context.Context, artifact models.PDFArtifact) error
	FindArtifact(ctx context.Context, personID uuid.UUID) (*models.PDFArtifact, error)
	Ping(ctx context.Context) error
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)

type StoreContractSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
	ctx      context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreContractSuite{newStore: func() Store { return NewInMemory() }})
}

func TestSQLiteStoreSuite(t *testing.T) {
	s := &StoreContractSuite{}
	s.newStore = func() Store {
		db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite})
		s.Require().NoError(err)
		s.T().Cleanup(func() { _ = db.Close() })
		return NewSQLite(db)
	}
	suite.Run(t, s)
}

func (s *StoreContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreContractSuite) seed(names ...string) (*models.Assessment, []*models.Person) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	a, err := models.NewAssessment("lead@example.com", now)
	s.Require().NoError(err)

	people := make([]*models.Person, 0, len(names))
	for i, name := range names {
		p, err := models.NewPerson(a.ID, i, name, 7, 4, 3, now)
		s.Require().NoError(err)
		people = append(people, p)
	}
	s.Require().NoError(s.store.Create(s.ctx, a, people))
	return a, people
}

func (s *StoreContractSuite) TestCreateAndFindByToken() {
	a, _ := s.seed("Ana")

	found, err := s.store.FindByToken(s.ctx, a.SessionToken)
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
	s.Equal(a.AssessorEmail, found.AssessorEmail)
	s.True(a.CreatedAt.Equal(found.CreatedAt))
}

func (s *StoreContractSuite) TestFindByTokenUnknown() {
	_, err := s.store.FindByToken(s.ctx, uuid.New())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *StoreContractSuite) TestListPeopleKeepsSubmissionOrder() {
	a, people := s.seed("Zed", "Amy", "Kim")

	listed, err := s.store.ListPeople(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	for i, p := range listed {
		s.Equal(people[i].ID, p.ID)
		s.Equal(people[i].Name, p.Name)
		s.Equal(56, p.FinalRating)
		s.Equal(scoring.GradeB, p.Grade)
		s.Equal(guidance.StrongContributor, p.GuidanceKey)
		s.False(p.HasPDF)
	}
}

func (s *StoreContractSuite) TestArtifacts() {
	a, people := s.seed("Ana", "Ben")
	path := models.ArtifactPath(a.ID, people[0].ID)

	s.Require().NoError(s.store.SaveArtifact(s.ctx, models.PDFArtifact{
		PersonID:    people[0].ID,
		StoragePath: path,
		CreatedAt:   time.Now().UTC(),
	}))

	artifact, err := s.store.FindArtifact(s.ctx, people[0].ID)
	s.Require().NoError(err)
	s.Equal(path, artifact.StoragePath)

	_, err = s.store.FindArtifact(s.ctx, people[1].ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))

	listed, err := s.store.ListPeople(s.ctx, a.ID)
	s.Require().NoError(err)
	s.True(listed[0].HasPDF)
	s.False(listed[1].HasPDF)

	err = s.store.SaveArtifact(s.ctx, models.PDFArtifact{PersonID: people[0].ID, StoragePath: path, CreatedAt: time.Now().UTC()})
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *StoreContractSuite) TestFindPersonScopedToAssessment() {
	a, people := s.seed("Ana")
	other, _ := s.seed("Ben")

	p, err := s.store.FindPerson(s.ctx, a.ID, people[0].ID)
	s.Require().NoError(err)
	s.Equal("Ana", p.Name)

	_, err = s.store.FindPerson(s.ctx, other.ID, people[0].ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *StoreContractSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

func TestRebindDollar(t *testing.T) {
	got := rebindDollar("SELECT * FROM t WHERE a = ? AND b = ?")
	if got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Fatalf("unexpected rebind: %s", got)
	}
}
