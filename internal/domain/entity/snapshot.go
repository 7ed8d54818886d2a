package entity

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Snapshot is the complete persisted state of the marketplace at one point in time.
// Every mutation reads a whole snapshot, changes a private copy and writes it back.
type Snapshot struct {
	Version   int64               `json:"version"`
	Users     []User              `json:"users"`
	Roles     map[uuid.UUID]Role  `json:"roles"`
	Stores    []Store             `json:"stores"`
	Products  map[int64][]Product `json:"products"` // Keyed by store id.
	Orders    []Order             `json:"orders"`
	Sequences Sequences           `json:"sequences"`
}

// Sequences holds the last issued ids so that ids are never reused after a delete.
type Sequences struct {
	StoreID    int64           `json:"store_id"`
	ProductIDs map[int64]int64 `json:"product_ids"` // Keyed by store id.
}

// NewSnapshot returns the empty seed state used when nothing has been persisted yet.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []User{},
		Roles:    map[uuid.UUID]Role{},
		Stores:   []Store{},
		Products: map[int64][]Product{},
		Orders:   []Order{},
		Sequences: Sequences{
			ProductIDs: map[int64]int64{},
		},
	}
}

// Normalize replaces nil collections, which a decoded document may carry, with empty ones.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Roles == nil {
		s.Roles = map[uuid.UUID]Role{}
	}
	if s.Stores == nil {
		s.Stores = []Store{}
	}
	if s.Products == nil {
		s.Products = map[int64][]Product{}
	}
	if s.Orders == nil {
		s.Orders = []Order{}
	}
	if s.Sequences.ProductIDs == nil {
		s.Sequences.ProductIDs = map[int64]int64{}
	}

	return s
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Version:  s.Version,
		Users:    slices.Clone(s.Users),
		Roles:    maps.Clone(s.Roles),
		Stores:   slices.Clone(s.Stores),
		Products: make(map[int64][]Product, len(s.Products)),
		Orders:   make([]Order, len(s.Orders)),
		Sequences: Sequences{
			StoreID:    s.Sequences.StoreID,
			ProductIDs: maps.Clone(s.Sequences.ProductIDs),
		},
	}
	for storeID, products := range s.Products {
		cloned := make([]Product, len(products))
		for i, p := range products {
			cloned[i] = p.Clone()
		}
		out.Products[storeID] = cloned
	}
	for i, o := range s.Orders {
		out.Orders[i] = o.Clone()
	}

	return out.Normalize()
}

// FindUser returns the user with the given id, or nil.
func (s *Snapshot) FindUser(id uuid.UUID) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}

	return nil
}

// FindUserByEmail matches emails case-insensitively.
func (s *Snapshot) FindUserByEmail(email string) *User {
	for i := range s.Users {
		if strings.EqualFold(s.Users[i].Email, email) {
			return &s.Users[i]
		}
	}

	return nil
}

// RoleOf returns the single role held by the user.
func (s *Snapshot) RoleOf(userID uuid.UUID) (Role, bool) {
	role, ok := s.Roles[userID]

	return role, ok
}

// HasRole reports whether the user currently holds role.
func (s *Snapshot) HasRole(userID uuid.UUID, role Role) bool {
	current, ok := s.Roles[userID]

	return ok && current == role
}

// HasAdmin reports whether any user holds RoleAdmin.
func (s *Snapshot) HasAdmin() bool {
	for _, role := range s.Roles {
		if role == RoleAdmin {
			return true
		}
	}

	return false
}

// OwnsStores reports whether the user owns at least one store.
func (s *Snapshot) OwnsStores(userID uuid.UUID) bool {
	for i := range s.Stores {
		if s.Stores[i].OwnerID == userID {
			return true
		}
	}

	return false
}

// FindStore returns the store with the given id, or nil.
func (s *Snapshot) FindStore(id int64) *Store {
	for i := range s.Stores {
		if s.Stores[i].ID == id {
			return &s.Stores[i]
		}
	}

	return nil
}

// FindProduct returns the product within the store's list, or nil.
func (s *Snapshot) FindProduct(storeID, productID int64) *Product {
	products := s.Products[storeID]
	for i := range products {
		if products[i].ID == productID {
			return &products[i]
		}
	}

	return nil
}

// FindOrder returns the order with the given id, or nil.
func (s *Snapshot) FindOrder(id uuid.UUID) *Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}

	return nil
}

// NextStoreID issues the next global store id.
func (s *Snapshot) NextStoreID() int64 {
	s.Sequences.StoreID = max(s.Sequences.StoreID, maxStoreID(s.Stores)) + 1

	return s.Sequences.StoreID
}

// NextProductID issues the next product id within one store.
func (s *Snapshot) NextProductID(storeID int64) int64 {
	if s.Sequences.ProductIDs == nil {
		s.Sequences.ProductIDs = map[int64]int64{}
	}
	next := max(s.Sequences.ProductIDs[storeID], maxProductID(s.Products[storeID])) + 1
	s.Sequences.ProductIDs[storeID] = next

	return next
}

func maxStoreID(stores []Store) int64 {
	var highest int64
	for _, st := range stores {
		highest = max(highest, st.ID)
	}

	return highest
}

func maxProductID(products []Product) int64 {
	var highest int64
	for _, p := range products {
		highest = max(highest, p.ID)
	}

	return highest
}
