package dedup

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"hookrelay/internal/platform/models"
	"hookrelay/internal/platform/repositories"
)

// Store answers "has this delivery ID been seen" with an LRU cache in
// front of the persistent delivery log, so replayed deliveries on the
// hot path rarely touch the database.
type Store struct {
	seen *lru.Cache[string, struct{}]
	repo *repositories.DeliveryRepository
}

func NewStore(cacheSize int, repo *repositories.DeliveryRepository) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	seen, err := lru.New[string, struct{}](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{seen: seen, repo: repo}, nil
}

// Claim reserves a delivery ID. It returns false for a duplicate; the
// first claim also creates the delivery log row.
func (s *Store) Claim(d *models.Delivery) (bool, error) {
	if _, ok := s.seen.Get(d.ID); ok {
		return false, nil
	}
	fresh, err := s.repo.Reserve(d)
	if err != nil {
		return false, err
	}
	if fresh {
		s.seen.Add(d.ID, struct{}{})
	}
	return fresh, nil
}

// Record updates the reserved row with the delivery's terminal state.
func (s *Store) Record(d *models.Delivery) error {
	return s.repo.UpdateOutcome(d)
}
