package navigation

// RouterDelegate performs navigation commands. Manager is the only
// production implementation.
type RouterDelegate interface {
	Push(to Route)
	PushOrPop(to Route)
	Pop()
	PopTo(to Route)
	PopToRoot()
	Present(view any, style PresentationStyle)
	Dismiss(firstCoordinatorRoute Route)
	Root(newRoot Route)
	ReplaceStack(newStack []Route)
	CheckRouteEquivalenceNecessary(path Route)
}

// Router is the per-flow command surface. It holds no navigation state and
// forwards every call to its delegate. Calls made before a delegate is bound
// are dropped.
type Router struct {
	delegate RouterDelegate
}

func (r *Router) Push(to Route) {
	if r.delegate != nil {
		r.delegate.Push(to)
	}
}

func (r *Router) PushOrPop(to Route) {
	if r.delegate != nil {
		r.delegate.PushOrPop(to)
	}
}

func (r *Router) Pop() {
	if r.delegate != nil {
		r.delegate.Pop()
	}
}

func (r *Router) PopTo(to Route) {
	if r.delegate != nil {
		r.delegate.PopTo(to)
	}
}

func (r *Router) PopToRoot() {
	if r.delegate != nil {
		r.delegate.PopToRoot()
	}
}

func (r *Router) Present(view any, style PresentationStyle) {
	if r.delegate != nil {
		r.delegate.Present(view, style)
	}
}

func (r *Router) Dismiss(firstCoordinatorRoute Route) {
	if r.delegate != nil {
		r.delegate.Dismiss(firstCoordinatorRoute)
	}
}

func (r *Router) Root(newRoot Route) {
	if r.delegate != nil {
		r.delegate.Root(newRoot)
	}
}

func (r *Router) ReplaceStack(newStack []Route) {
	if r.delegate != nil {
		r.delegate.ReplaceStack(newStack)
	}
}

func (r *Router) CheckRouteEquivalenceNecessary(path Route) {
	if r.delegate != nil {
		r.delegate.CheckRouteEquivalenceNecessary(path)
	}
}
