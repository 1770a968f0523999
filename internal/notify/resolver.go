package notify

import (
	"context"
	"fmt"

	"claimrelay/internal/types"
)

// ResolvedParties holds the four entities referenced by a complaint event.
type ResolvedParties struct {
	Reseller *types.Entity
	Client   *types.Entity
	Creator  *types.Entity
	Expert   *types.Entity
}

// Resolver loads the parties of a complaint event from an EntityStore and
// enforces cross-entity consistency. It is a pure read: no side effects
// beyond the store lookups.
type Resolver struct {
	store types.EntityStore
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store types.EntityStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve loads reseller, client, creator, and expert by the ids carried in
// the normalized event. Any absent entity fails with the matching
// not_found code. The client must additionally be a customer-type
// contractor owned by the event's reseller; both conditions are enforced as
// one combined validity check, indistinguishable to the caller from an
// absent client.
func (r *Resolver) Resolve(ctx context.Context, event *types.ComplaintEvent) (*ResolvedParties, error) {
	reseller, err := r.lookup(ctx, types.EntitySeller, event.ResellerID, types.ErrCodeNotFoundReseller)
	if err != nil {
		return nil, err
	}

	client, err := r.lookup(ctx, types.EntityClient, event.ClientID, types.ErrCodeNotFoundClient)
	if err != nil {
		return nil, err
	}
	if client.Type != types.ContractorCustomer || client.SellerID != event.ResellerID {
		return nil, types.NewAppError(types.ErrCodeNotFoundClient,
			fmt.Sprintf("client %d not found for reseller %d", event.ClientID, event.ResellerID), nil)
	}

	creator, err := r.lookup(ctx, types.EntityCreator, event.CreatorID, types.ErrCodeNotFoundCreator)
	if err != nil {
		return nil, err
	}

	expert, err := r.lookup(ctx, types.EntityExpert, event.ExpertID, types.ErrCodeNotFoundExpert)
	if err != nil {
		return nil, err
	}

	return &ResolvedParties{
		Reseller: reseller,
		Client:   client,
		Creator:  creator,
		Expert:   expert,
	}, nil
}

func (r *Resolver) lookup(ctx context.Context, kind types.EntityKind, id int64, notFound types.ErrorCode) (*types.Entity, error) {
	entity, err := r.store.Lookup(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, types.NewAppError(notFound,
			fmt.Sprintf("%s %d not found", string(kind), id), nil)
	}
	return entity, nil
}
