package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractflow/internal/models/db_models"
	"contractflow/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepository is the document-per-token store. Every update call is a
// single-row merge and atomic per call.
type ContractRepository interface {
	Create(ctx context.Context, contract *db_models.Contract) error
	// FindByToken returns nil, nil when no contract has the token.
	FindByToken(ctx context.Context, token string) (*db_models.Contract, error)
	UpdateFields(ctx context.Context, token string, patch db_models.ContractPatch) error
	// UpdateFieldsUnlessStatus applies patch only while the stored status is
	// not excluded, and reports whether it did.
	UpdateFieldsUnlessStatus(ctx context.Context, token string, excluded db_models.ContractStatus, patch db_models.ContractPatch) (bool, error)
	// UpdateStepFields applies a patch without a status and sets status from
	// the merged stored row in the same atomic write. Returns the stored row.
	UpdateStepFields(ctx context.Context, token string, patch db_models.ContractPatch) (*db_models.Contract, error)
	ListByStatus(ctx context.Context, status db_models.ContractStatus, limit int) ([]db_models.Contract, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]db_models.Contract, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *db_models.Contract) error {
	err := r.db.WithContext(ctx).Create(contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrDuplicateToken
		}
		return fmt.Errorf("%w: create contract: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *contractRepository) FindByToken(ctx context.Context, token string) (*db_models.Contract, error) {
	var contract db_models.Contract
	err := r.db.WithContext(ctx).First(&contract, "token = ?", token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find contract: %v", utils.ErrDatabaseError, err)
	}

	return &contract, nil
}

func (r *contractRepository) UpdateFields(ctx context.Context, token string, patch db_models.ContractPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&db_models.Contract{}).
		Where("token = ?", token).
		Updates(patch.Columns())
	if res.Error != nil {
		return fmt.Errorf("%w: update contract: %v", utils.ErrDatabaseError, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrContractNotFound
	}
	return nil
}

func (r *contractRepository) UpdateFieldsUnlessStatus(ctx context.Context, token string, excluded db_models.ContractStatus, patch db_models.ContractPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}

	res := r.db.WithContext(ctx).
		Model(&db_models.Contract{}).
		Where("token = ? AND status <> ?", token, excluded).
		Updates(patch.Columns())
	if res.Error != nil {
		return false, fmt.Errorf("%w: conditional update: %v", utils.ErrDatabaseError, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.FindByToken(ctx, token)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, utils.ErrContractNotFound
	}
	return false, nil
}

func (r *contractRepository) UpdateStepFields(ctx context.Context, token string, patch db_models.ContractPatch) (*db_models.Contract, error) {
	var stored db_models.Contract
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stored, "token = ?", token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrContractNotFound
			}
			return fmt.Errorf("%w: lock contract: %v", utils.ErrDatabaseError, err)
		}

		patch.Status = nil
		patch.Apply(&stored)
		stored.Status = stored.FieldStatus()

		cols := patch.Columns()
		cols["status"] = stored.Status
		if err := tx.Model(&db_models.Contract{}).Where("token = ?", token).Updates(cols).Error; err != nil {
			return fmt.Errorf("%w: update step: %v", utils.ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *contractRepository) ListByStatus(ctx context.Context, status db_models.ContractStatus, limit int) ([]db_models.Contract, error) {
	var contracts []db_models.Contract
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("%w: list contracts: %v", utils.ErrDatabaseError, err)
	}
	return contracts, nil
}

func (r *contractRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]db_models.Contract, error) {
	var contracts []db_models.Contract
	q := r.db.WithContext(ctx).
		Where("expires_at < ? AND status <> ?", now, db_models.StatusPaid).
		Order("expires_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("%w: list expired contracts: %v", utils.ErrDatabaseError, err)
	}
	return contracts, nil
}
