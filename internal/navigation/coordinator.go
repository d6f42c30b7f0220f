package navigation

// Destinations turns a flow's routes into renderables. Flow owners implement
// it; the navigation core treats the result as opaque.
type Destinations[R Route] interface {
	Destination(route R) any
}

// DestinationResolver resolves untyped routes for the presentation layer.
// ok is false when the route does not belong to the resolver's flow.
type DestinationResolver interface {
	Resolve(route Route) (view any, ok bool)
}

// Coordinator binds one flow owner to its Router. Flow owners embed it and
// implement Destinations for their route type.
//
// The router is looked up in the registry on every call, so after
// DestroyRouter any further use silently creates a fresh one.
type Coordinator[R Route] struct {
	owner    OwnerID
	registry *Registry
	root     R
	screens  Destinations[R]
}

// NewCoordinator acquires an owner identity in reg for a flow starting at
// root. Call DestroyRouter when the flow ends.
func NewCoordinator[R Route](reg *Registry, root R, screens Destinations[R]) *Coordinator[R] {
	return &Coordinator[R]{
		owner:    NewOwnerID(),
		registry: reg,
		root:     root,
		screens:  screens,
	}
}

func (c *Coordinator[R]) router() *Router {
	return c.registry.Router(c.owner)
}

// Owner returns the identity this coordinator is registered under.
func (c *Coordinator[R]) Owner() OwnerID { return c.owner }

// Root returns the first route of the flow.
func (c *Coordinator[R]) Root() R { return c.root }

// DestroyRouter releases this coordinator's registry entry. Releasing twice
// is harmless.
func (c *Coordinator[R]) DestroyRouter() {
	c.registry.RemoveRouter(c.owner)
}

func (c *Coordinator[R]) Push(to R) {
	c.router().Push(to)
}

// PushOrPop pushes to, or pops back to it if it is already in the history.
func (c *Coordinator[R]) PushOrPop(to R) {
	c.router().PushOrPop(to)
}

func (c *Coordinator[R]) Pop() {
	c.router().Pop()
}

func (c *Coordinator[R]) PopTo(to R) {
	c.router().PopTo(to)
}

// PopToRootOfCoordinator pops back to this flow's first route.
func (c *Coordinator[R]) PopToRootOfCoordinator() {
	c.router().PopTo(c.root)
}

// PopToRoot pops back to the first route of the whole stack.
func (c *Coordinator[R]) PopToRoot() {
	c.router().PopToRoot()
}

// Present resolves route through the flow's destinations and presents the
// result modally.
func (c *Coordinator[R]) Present(route R, style PresentationStyle) {
	c.router().Present(c.screens.Destination(route), style)
}

// Dismiss closes this flow: pops back to its root, then pops once more.
func (c *Coordinator[R]) Dismiss() {
	c.router().Dismiss(c.root)
}

// SetRoot resets the whole stack to newRoot.
func (c *Coordinator[R]) SetRoot(newRoot R) {
	c.router().Root(newRoot)
}

func (c *Coordinator[R]) ReplaceStack(newStack []R) {
	routes := make([]Route, len(newStack))
	for i, r := range newStack {
		routes[i] = r
	}
	c.router().ReplaceStack(routes)
}

// CheckRouteEquivalence is called by the presentation layer when the flow's
// root is rendered in place of the route that was pushed to host it.
func (c *Coordinator[R]) CheckRouteEquivalence() {
	c.router().CheckRouteEquivalenceNecessary(c.root)
}

// RootDestination renders the flow's first route.
func (c *Coordinator[R]) RootDestination() any {
	return c.screens.Destination(c.root)
}

// Resolve implements DestinationResolver for routes of type R.
func (c *Coordinator[R]) Resolve(route Route) (any, bool) {
	r, ok := route.(R)
	if !ok {
		return nil, false
	}
	return c.screens.Destination(r), true
}
