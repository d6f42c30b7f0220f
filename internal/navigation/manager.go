package navigation

import (
	"slices"

	"go.uber.org/zap"
)

// Manager owns the navigation state shared by every Router: the rendered
// stack, the history used for lookups, the presented modal and the route
// equivalence map.
//
// Invalid commands (nil routes, pop on an empty history, pop-to an absent
// route, a second dismiss of the same flow) are silent no-ops. They are logged at debug level when a logger is
// configured.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	stack        []Route
	history      []Route
	presented    *Presented
	equivalences map[string]string

	subscribers map[int]func()
	nextSubID   int

	// changes counts notifications; dismissedAt is its value right after the
	// last Dismiss, whose flow root was dismissedID.
	changes     uint64
	dismissedAt uint64
	dismissedID string

	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager with an empty stack.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		equivalences: make(map[string]string),
		subscribers:  make(map[int]func()),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach makes m the delegate of every router in reg.
func (m *Manager) Attach(reg *Registry) {
	reg.RegisterDelegate(m)
}

func (m *Manager) Push(to Route) {
	if m.nilRoute(to, "push") {
		return
	}
	m.history = append(m.history, to)
	m.setStack(append(slices.Clip(m.stack), to))
}

func (m *Manager) PushOrPop(to Route) {
	if m.nilRoute(to, "push-or-pop") {
		return
	}
	id := m.resolveEquivalence(to.RouteID())
	if !m.inHistory(id) {
		m.Push(to)
		return
	}
	m.PopTo(to)
}

// Pop closes the presented modal if there is one, otherwise removes the top
// of the stack.
func (m *Manager) Pop() {
	if m.presented != nil {
		m.presented = nil
		m.notify()
		return
	}
	if len(m.history) == 0 || len(m.stack) == 0 {
		m.logger.Debug("navigation: pop on empty history ignored")
		return
	}
	removed := m.history[len(m.history)-1].RouteID()
	m.history = m.history[:len(m.history)-1]
	m.removeEquivalences([]string{removed})
	m.setStack(m.stack[:len(m.stack)-1])
}

// PopTo trims the stack back to the most recent occurrence of to. Only the
// stack is trimmed here; history follows through reconciliation.
func (m *Manager) PopTo(to Route) {
	if m.nilRoute(to, "pop-to") {
		return
	}
	id := m.resolveEquivalence(to.RouteID())

	index := m.lastIndex(id)
	if index < 0 {
		m.logger.Debug("navigation: pop-to target not in history", zap.String("route", id))
		return
	}

	elementsToRemove := len(m.history) - (index + 1)
	if elementsToRemove <= 0 {
		return
	}
	elementsToRemove = min(elementsToRemove, len(m.stack))
	m.setStack(m.stack[:len(m.stack)-elementsToRemove])
}

func (m *Manager) PopToRoot() {
	if len(m.history) == 0 {
		m.logger.Debug("navigation: pop-to-root on empty history ignored")
		return
	}
	m.PopTo(m.history[0])
}

// Present replaces whatever modal is active.
func (m *Manager) Present(view any, style PresentationStyle) {
	m.presented = &Presented{View: view, Style: style}
	m.notify()
}

// Dismiss closes a whole flow: back to its first route, then one more pop,
// which closes the modal if one is still presented.
//
// Without a modal, the flow root must be in the history, and dismissing the
// same flow again before anything else changed does nothing.
func (m *Manager) Dismiss(firstCoordinatorRoute Route) {
	if m.nilRoute(firstCoordinatorRoute, "dismiss") {
		return
	}
	id := m.resolveEquivalence(firstCoordinatorRoute.RouteID())
	if m.presented == nil {
		if id == m.dismissedID && m.changes == m.dismissedAt {
			m.logger.Debug("navigation: repeated dismiss ignored", zap.String("route", id))
			return
		}
		if !m.inHistory(id) {
			m.logger.Debug("navigation: dismiss of a flow not in history ignored", zap.String("route", id))
			return
		}
	}
	m.PopTo(firstCoordinatorRoute)
	m.Pop()
	m.dismissedID = id
	m.dismissedAt = m.changes
}

// Root resets the stack and history to newRoot alone. The equivalence map is
// left as is.
func (m *Manager) Root(newRoot Route) {
	if m.nilRoute(newRoot, "root") {
		return
	}
	m.history = []Route{newRoot}
	m.stack = []Route{newRoot}
	m.notify()
}

// ReplaceStack resets the stack and history to newStack. The equivalence map
// is left as is.
func (m *Manager) ReplaceStack(newStack []Route) {
	routes := slices.DeleteFunc(slices.Clone(newStack), func(r Route) bool { return r == nil })
	if len(routes) != len(newStack) {
		m.logger.Debug("navigation: nil routes dropped from replacement stack",
			zap.Int("dropped", len(newStack)-len(routes)))
	}
	m.history = routes
	m.stack = slices.Clone(routes)
	m.notify()
}

// CheckRouteEquivalenceNecessary records that path was rendered in place of
// the last pushed route, so later lookups of either identity resolve to the
// same history entry. The presentation layer calls it when a nested flow
// renders its root.
func (m *Manager) CheckRouteEquivalenceNecessary(path Route) {
	if path == nil || len(m.history) == 0 {
		return
	}
	last := m.history[len(m.history)-1].RouteID()
	pathID := path.RouteID()
	if pathID == last || m.hasEquivalenceValue(pathID) {
		return
	}
	m.equivalences[last] = pathID
	m.logger.Debug("navigation: route equivalence recorded",
		zap.String("route", last), zap.String("equivalent", pathID))
}

// SetStack is the write path for the presentation layer when the user
// navigates back without going through a Router (esc, back gesture). History
// is trimmed to match. Only a prefix of the current stack is accepted; growing
// or reordering the stack goes through the command API.
func (m *Manager) SetStack(stack []Route) {
	if len(stack) > len(m.stack) {
		m.logger.Debug("navigation: external stack growth ignored",
			zap.Int("current", len(m.stack)), zap.Int("requested", len(stack)))
		return
	}
	for i, r := range stack {
		if !SameRoute(r, m.stack[i]) {
			m.logger.Debug("navigation: external stack rewrite ignored", zap.Int("index", i))
			return
		}
	}
	if len(stack) == len(m.stack) {
		return
	}
	m.setStack(slices.Clone(stack))
}

// DismissPresented clears the modal slot from outside the command API.
func (m *Manager) DismissPresented() {
	if m.presented == nil {
		return
	}
	m.presented = nil
	m.notify()
}

// Stack returns a copy of the rendered stack.
func (m *Manager) Stack() []Route {
	return slices.Clone(m.stack)
}

// Presented returns the active modal, if any.
func (m *Manager) Presented() (Presented, bool) {
	if m.presented == nil {
		return Presented{}, false
	}
	return *m.presented, true
}

// IsPresenting reports whether a modal of the given kind is active.
func (m *Manager) IsPresenting(kind PresentationKind) bool {
	return m.presented != nil && m.presented.Style.Kind() == kind
}

// Subscribe registers fn to run after every state change. The returned func
// removes the subscription.
func (m *Manager) Subscribe(fn func()) (unsubscribe func()) {
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	return func() { delete(m.subscribers, id) }
}

func (m *Manager) setStack(stack []Route) {
	m.stack = stack
	m.reconcileHistory()
	m.notify()
}

// reconcileHistory trims history when the stack became shorter than it.
func (m *Manager) reconcileHistory() {
	if len(m.history) <= len(m.stack) {
		return
	}
	elementsToRemove := len(m.history) - len(m.stack)
	cut := len(m.history) - elementsToRemove
	removed := routeIDs(m.history[cut:])
	m.history = slices.Clip(m.history[:cut])
	m.removeEquivalences(removed)
}

func (m *Manager) removeEquivalences(ids []string) {
	for _, id := range ids {
		delete(m.equivalences, id)
	}
}

// resolveEquivalence maps an identity that was recorded as the equivalent of
// a history entry back to that entry's identity.
func (m *Manager) resolveEquivalence(id string) string {
	if _, ok := m.equivalences[id]; ok {
		return id
	}
	for key, value := range m.equivalences {
		if value == id {
			return key
		}
	}
	return id
}

func (m *Manager) hasEquivalenceValue(id string) bool {
	for _, value := range m.equivalences {
		if value == id {
			return true
		}
	}
	return false
}

func (m *Manager) lastIndex(id string) int {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].RouteID() == id {
			return i
		}
	}
	return -1
}

func (m *Manager) inHistory(id string) bool {
	return slices.ContainsFunc(m.history, func(r Route) bool { return r.RouteID() == id })
}

func (m *Manager) nilRoute(r Route, op string) bool {
	if r != nil {
		return false
	}
	m.logger.Debug("navigation: nil route ignored", zap.String("op", op))
	return true
}

func (m *Manager) notify() {
	m.changes++
	for _, fn := range m.subscribers {
		fn()
	}
}
