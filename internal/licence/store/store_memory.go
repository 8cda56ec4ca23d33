package store

import (
	"context"
	"sync"
	"time"

	"affilia/internal/licence/models"
	"affilia/pkg/domain"
	dErrors "affilia/pkg/domain-errors"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	licences map[domain.LicenceID]*models.Licence
	nextID   domain.LicenceID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{licences: make(map[domain.LicenceID]*models.Licence), nextID: 1}
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.LicenceID) (*models.Licence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	licence, ok := s.licences[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	return licence.Clone(), nil
}

func (s *InMemoryStore) Insert(_ context.Context, licence *models.Licence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !licence.ID.IsValid() {
		licence.ID = s.nextID
	}
	if licence.ID >= s.nextID {
		s.nextID = licence.ID + 1
	}
	now := time.Now()
	if licence.CreatedAt.IsZero() {
		licence.CreatedAt = now
	}
	licence.UpdatedAt = now
	s.licences[licence.ID] = licence.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, licence *models.Licence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.licences[licence.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	s.licences[licence.ID] = licence.Clone()
	return nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, id domain.LicenceID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	licence, ok := s.licences[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "licence not found")
	}
	licence.Status = status
	licence.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryStore) FindDuplicate(_ context.Context, clubID domain.ClubID, lastKey, firstKey string, birthDate *time.Time) (*models.Licence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, licence := range s.licences {
		if licence.ClubID != clubID {
			continue
		}
		if models.MatchKey(licence.LastName) != lastKey || models.MatchKey(licence.FirstName) != firstKey {
			continue
		}
		if sameBirthDate(licence.BirthDate, birthDate) {
			return licence.Clone(), nil
		}
	}
	return nil, nil
}

func sameBirthDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
