// Package authz decides whether an actor may mutate shared marketplace state.
// Decisions are pure functions of the snapshot they are built over.
package authz

import (
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/errors"

	"github.com/google/uuid"
)

// Guard evaluates the marketplace authorization policy:
//   - an admin may mutate any store, product or order, and is the only actor who may assign roles;
//   - anyone else may mutate a store or its products only when they own the store;
//   - anyone else may mutate an order only when one of its items comes from a store they own.
type Guard struct {
	snapshot *entity.Snapshot
}

// NewGuard builds a guard over the given snapshot. The guard never modifies it.
func NewGuard(snapshot *entity.Snapshot) Guard {
	return Guard{snapshot: snapshot}
}

// IsAdmin reports whether the actor holds RoleAdmin.
func (g Guard) IsAdmin(actorID uuid.UUID) bool {
	return g.snapshot.HasRole(actorID, entity.RoleAdmin)
}

// CanMutateStore reports whether the actor may change the store.
func (g Guard) CanMutateStore(actorID uuid.UUID, store *entity.Store) bool {
	if store == nil {
		return false
	}

	return g.IsAdmin(actorID) || store.OwnerID == actorID
}

// CanMutateProduct reports whether the actor may change products of the store.
func (g Guard) CanMutateProduct(actorID uuid.UUID, store *entity.Store) bool {
	return g.CanMutateStore(actorID, store)
}

// CanMutateOrder reports whether the actor may change the order.
func (g Guard) CanMutateOrder(actorID uuid.UUID, order *entity.Order) bool {
	if order == nil {
		return false
	}
	if g.IsAdmin(actorID) {
		return true
	}

	for _, item := range order.Items {
		store := g.snapshot.FindStore(item.Product.StoreID)
		if store != nil && store.OwnerID == actorID {
			return true
		}
	}

	return false
}

// CanAssignRole reports whether the actor may change other users' roles.
func (g Guard) CanAssignRole(actorID uuid.UUID) bool {
	return g.IsAdmin(actorID)
}

// AuthorizeStore resolves the store and checks the actor against it.
// A missing store yields ErrNotFound; a denied actor yields ErrForbidden.
func (g Guard) AuthorizeStore(actorID uuid.UUID, storeID int64) (*entity.Store, error) {
	store := g.snapshot.FindStore(storeID)
	if store == nil {
		return nil, errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", storeID)
	}
	if !g.CanMutateStore(actorID, store) {
		return nil, errors.Wrapf(domainerrors.ErrForbidden, "actor %s may not mutate store %d", actorID, storeID)
	}

	return store, nil
}

// AuthorizeProduct resolves the store and checks the actor may change its products.
func (g Guard) AuthorizeProduct(actorID uuid.UUID, storeID int64) (*entity.Store, error) {
	store := g.snapshot.FindStore(storeID)
	if store == nil {
		return nil, errors.Wrapf(domainerrors.ErrNotFound, "store %d not found", storeID)
	}
	if !g.CanMutateProduct(actorID, store) {
		return nil, errors.Wrapf(domainerrors.ErrForbidden, "actor %s may not mutate products of store %d", actorID, storeID)
	}

	return store, nil
}

// AuthorizeOrder resolves the order and checks the actor against it.
func (g Guard) AuthorizeOrder(actorID uuid.UUID, orderID uuid.UUID) (*entity.Order, error) {
	order := g.snapshot.FindOrder(orderID)
	if order == nil {
		return nil, errors.Wrapf(domainerrors.ErrNotFound, "order %s not found", orderID)
	}
	if !g.CanMutateOrder(actorID, order) {
		return nil, errors.Wrapf(domainerrors.ErrForbidden, "actor %s may not mutate order %s", actorID, orderID)
	}

	return order, nil
}

// AuthorizeRoleAssignment checks the actor may assign roles.
func (g Guard) AuthorizeRoleAssignment(actorID uuid.UUID) error {
	if !g.CanAssignRole(actorID) {
		return errors.Wrap(domainerrors.ErrForbidden, "only an admin may assign roles")
	}

	return nil
}
