package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"contractflow/internal/models/db_models"
	"contractflow/pkg/utils"
)

// MemoryContractRepository keeps contracts in process memory. Used by the
// "memory" database driver and by tests.
type MemoryContractRepository struct {
	mu        sync.RWMutex
	contracts map[string]*db_models.Contract
}

func NewMemoryContractRepository() *MemoryContractRepository {
	return &MemoryContractRepository{
		contracts: make(map[string]*db_models.Contract),
	}
}

func (s *MemoryContractRepository) Create(ctx context.Context, contract *db_models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contracts[contract.Token]; exists {
		return utils.ErrDuplicateToken
	}
	stored := contract.Clone()
	stored.UpdatedAt = time.Now()
	s.contracts[contract.Token] = stored
	return nil
}

func (s *MemoryContractRepository) FindByToken(ctx context.Context, token string) (*db_models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[token]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (s *MemoryContractRepository) UpdateFields(ctx context.Context, token string, patch db_models.ContractPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[token]
	if !ok {
		return utils.ErrContractNotFound
	}
	patch.Apply(c)
	c.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryContractRepository) UpdateFieldsUnlessStatus(ctx context.Context, token string, excluded db_models.ContractStatus, patch db_models.ContractPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[token]
	if !ok {
		return false, utils.ErrContractNotFound
	}
	if c.Status == excluded || patch.IsEmpty() {
		return false, nil
	}
	patch.Apply(c)
	c.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryContractRepository) UpdateStepFields(ctx context.Context, token string, patch db_models.ContractPatch) (*db_models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[token]
	if !ok {
		return nil, utils.ErrContractNotFound
	}
	patch.Status = nil
	patch.Apply(c)
	c.Status = c.FieldStatus()
	c.UpdatedAt = time.Now()
	return c.Clone(), nil
}

func (s *MemoryContractRepository) ListByStatus(ctx context.Context, status db_models.ContractStatus, limit int) ([]db_models.Contract, error) {
	return s.list(limit, func(c *db_models.Contract) bool {
		return status == "" || c.Status == status
	}), nil
}

func (s *MemoryContractRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]db_models.Contract, error) {
	return s.list(limit, func(c *db_models.Contract) bool {
		return c.ExpiresAt.Before(now) && c.Status != db_models.StatusPaid
	}), nil
}

func (s *MemoryContractRepository) list(limit int, keep func(*db_models.Contract) bool) []db_models.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]db_models.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		if keep(c) {
			result = append(result, *c.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Count returns the number of stored contracts.
func (s *MemoryContractRepository) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}
