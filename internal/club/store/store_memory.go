package store

import (
	"context"
	"sync"
	"time"

	"affilia/internal/club/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

// InMemoryStore keeps clubs in a mutex-guarded map. Execute holds the
// store lock across validate and mutate, matching the serialization the
// postgres store gets from row locks.
type InMemoryStore struct {
	mu     sync.RWMutex
	clubs  map[domain.ClubID]*models.Club
	nextID domain.ClubID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{clubs: make(map[domain.ClubID]*models.Club), nextID: 1}
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ClubID) (*models.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	club, ok := s.clubs[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	return club.Clone(), nil
}

func (s *InMemoryStore) Create(_ context.Context, club *models.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !club.ID.IsValid() {
		club.ID = s.nextID
	}
	if club.ID >= s.nextID {
		s.nextID = club.ID + 1
	}
	now := time.Now()
	if club.CreatedAt.IsZero() {
		club.CreatedAt = now
	}
	club.UpdatedAt = now
	s.clubs[club.ID] = club.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, club *models.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[club.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	s.clubs[club.ID] = club.Clone()
	return nil
}

func (s *InMemoryStore) Execute(_ context.Context, id domain.ClubID, validate func(*models.Club) error, mutate func(*models.Club)) (*models.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	club, ok := s.clubs[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	working := club.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.clubs[id] = working
	return working.Clone(), nil
}

func (s *InMemoryStore) RemainingQuota(_ context.Context, id domain.ClubID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	club, ok := s.clubs[id]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "club not found")
	}
	return club.RemainingQuota(), nil
}
