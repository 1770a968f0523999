package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"claimrelay/internal/types"
)

// EntityRepository resolves business entities from their backing tables.
// Resellers, contractors, and employees live in separate tables but resolve
// to the shared Entity shape keyed by role.
type EntityRepository struct {
	db DBTX
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(db DBTX) *EntityRepository {
	return &EntityRepository{db: db}
}

// Lookup resolves one entity by role and id. Returns (nil, nil) when the
// entity does not exist; errors are infrastructure failures only.
func (r *EntityRepository) Lookup(ctx context.Context, kind types.EntityKind, id int64) (*types.Entity, error) {
	switch kind {
	case types.EntitySeller:
		return r.lookupReseller(ctx, id)
	case types.EntityClient:
		return r.lookupContractor(ctx, id)
	case types.EntityCreator, types.EntityExpert:
		return r.lookupEmployee(ctx, kind, id)
	default:
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			fmt.Sprintf("unknown entity kind %q", kind), nil)
	}
}

func (r *EntityRepository) lookupReseller(ctx context.Context, id int64) (*types.Entity, error) {
	query := `SELECT id, name FROM resellers WHERE id = $1`

	e := types.Entity{Kind: types.EntitySeller}
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query reseller", err)
	}
	return &e, nil
}

func (r *EntityRepository) lookupContractor(ctx context.Context, id int64) (*types.Entity, error) {
	query := `SELECT id, type, name, seller_id, COALESCE(email, ''), COALESCE(mobile, '')
		FROM contractors WHERE id = $1`

	e := types.Entity{Kind: types.EntityClient}
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Type, &e.Name, &e.SellerID, &e.Email, &e.Mobile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query contractor", err)
	}
	return &e, nil
}

func (r *EntityRepository) lookupEmployee(ctx context.Context, kind types.EntityKind, id int64) (*types.Entity, error) {
	query := `SELECT id, name, COALESCE(email, '') FROM employees WHERE id = $1`

	e := types.Entity{Kind: kind}
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query employee", err)
	}
	return &e, nil
}

// Compile-time assertion that EntityRepository implements types.EntityStore.
var _ types.EntityStore = (*EntityRepository)(nil)
