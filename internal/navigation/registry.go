package navigation

import "github.com/google/uuid"

// OwnerID identifies a flow owner in the Registry.
type OwnerID uuid.UUID

// NewOwnerID mints a fresh owner identity.
func NewOwnerID() OwnerID {
	return OwnerID(uuid.New())
}

func (id OwnerID) String() string { return uuid.UUID(id).String() }

// Registry hands out one Router per flow owner and keeps every router bound
// to the single active delegate.
//
// A Registry is not safe for concurrent use. It is meant to be touched only
// from the UI update loop.
type Registry struct {
	delegate RouterDelegate
	routers  map[OwnerID]*Router
}

// NewRegistry returns an empty registry with no delegate.
func NewRegistry() *Registry {
	return &Registry{routers: make(map[OwnerID]*Router)}
}

// Router returns the cached router for owner, creating it bound to the
// current delegate if absent. The delegate may still be unset.
func (r *Registry) Router(owner OwnerID) *Router {
	if existing, ok := r.routers[owner]; ok {
		return existing
	}
	router := &Router{delegate: r.delegate}
	r.routers[owner] = router
	return router
}

// RemoveRouter forgets the router for owner. Owners must call this when
// their flow ends; forgotten entries are never reclaimed otherwise.
func (r *Registry) RemoveRouter(owner OwnerID) {
	delete(r.routers, owner)
}

// RegisterDelegate makes d the active delegate for every current and future
// router, replacing any previous one.
func (r *Registry) RegisterDelegate(d RouterDelegate) {
	r.delegate = d
	for _, router := range r.routers {
		router.delegate = d
	}
}

// Len returns the number of live routers.
func (r *Registry) Len() int {
	return len(r.routers)
}
