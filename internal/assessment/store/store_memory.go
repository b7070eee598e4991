package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"threecs/internal/assessment/models"
	"threecs/pkg/platform/sentinel"
)

// InMemoryStore keeps assessments in process memory. Used for development,
// the CLI and tests; data is lost on restart.
type InMemoryStore struct {
	mu          sync.RWMutex
	assessments map[uuid.UUID]*models.Assessment
	byToken     map[uuid.UUID]uuid.UUID
	people      map[uuid.UUID][]*models.Person
	artifacts   map[uuid.UUID]models.PDFArtifact
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		assessments: make(map[uuid.UUID]*models.Assessment),
		byToken:     make(map[uuid.UUID]uuid.UUID),
		people:      make(map[uuid.UUID][]*models.Person),
		artifacts:   make(map[uuid.UUID]models.PDFArtifact),
	}
}

func (s *InMemoryStore) Create(_ context.Context, a *models.Assessment, people []*models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assessments[a.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byToken[a.SessionToken]; exists {
		return sentinel.ErrConflict
	}

	stored := *a
	s.assessments[a.ID] = &stored
	s.byToken[a.SessionToken] = a.ID

	copies := make([]*models.Person, 0, len(people))
	for _, p := range people {
		cp := *p
		copies = append(copies, &cp)
	}
	s.people[a.ID] = copies
	return nil
}

func (s *InMemoryStore) FindByToken(_ context.Context, token uuid.UUID) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.assessments[id]
	return &cp, nil
}

func (s *InMemoryStore) ListPeople(_ context.Context, assessmentID uuid.UUID) ([]models.PersonSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people := s.people[assessmentID]
	out := make([]models.PersonSummary, 0, len(people))
	for _, p := range people {
		_, hasPDF := s.artifacts[p.ID]
		out = append(out, models.PersonSummary{Person: *p, HasPDF: hasPDF})
	}
	slices.SortStableFunc(out, func(a, b models.PersonSummary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return a.Position - b.Position
	})
	return out, nil
}

func (s *InMemoryStore) FindPerson(_ context.Context, assessmentID, personID uuid.UUID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people[assessmentID] {
		if p.ID == personID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) SaveArtifact(_ context.Context, artifact models.PDFArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.personExists(artifact.PersonID) {
		return sentinel.ErrNotFound
	}
	if _, exists := s.artifacts[artifact.PersonID]; exists {
		return sentinel.ErrConflict
	}
	s.artifacts[artifact.PersonID] = artifact
	return nil
}

func (s *InMemoryStore) FindArtifact(_ context.Context, personID uuid.UUID) (*models.PDFArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artifacts[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}

// personExists must be called while holding s.mu.
func (s *InMemoryStore) personExists(personID uuid.UUID) bool {
	for _, people := range s.people {
		for _, p := range people {
			if p.ID == personID {
				return true
			}
		}
	}
	return false
}
