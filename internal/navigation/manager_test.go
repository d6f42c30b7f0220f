package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRoute interface {
	Route
	isTestRoute()
}

type routeA struct{ n int }
type routeB struct{ n int }
type routeC struct{}
type routeD struct{}

func (r routeA) RouteID() string { return TypeIdentity(r) }
func (r routeB) RouteID() string { return TypeIdentity(r) }
func (r routeC) RouteID() string { return TypeIdentity(r) }
func (r routeD) RouteID() string { return TypeIdentity(r) }

func (routeA) isTestRoute() {}
func (routeB) isTestRoute() {}
func (routeC) isTestRoute() {}
func (routeD) isTestRoute() {}

func ids(routes []Route) []string { return routeIDs(routes) }

func assertSynced(t *testing.T, m *Manager) {
	t.Helper()
	if diff := cmp.Diff(ids(m.history), ids(m.stack)); diff != "" {
		t.Fatalf("history and stack diverged (-history +stack):\n%s", diff)
	}
}

func TestPush_KeepsHistoryAndStackInSync(t *testing.T) {
	m := NewManager()
	for _, r := range []Route{routeA{}, routeB{}, routeC{}, routeA{n: 2}} {
		m.Push(r)
		assertSynced(t, m)
	}
	m.Pop()
	assertSynced(t, m)
	m.PopTo(routeA{})
	assertSynced(t, m)
	assert.Len(t, m.history, 1)
}

func TestPop_EmptyHistoryIsNoop(t *testing.T) {
	m := NewManager()
	require.NotPanics(t, m.Pop)
	assert.Empty(t, m.history)
	assert.Empty(t, m.stack)
}

func TestPushOrPop_TwiceLeavesOneEntry(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.PushOrPop(routeB{})
	m.PushOrPop(routeB{})

	assert.Equal(t, []string{routeA{}.RouteID(), routeB{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
}

func TestPushOrPop_ReturnsToExistingEntry(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})
	m.Push(routeC{})

	m.PushOrPop(routeB{n: 7})

	assert.Equal(t, []string{routeA{}.RouteID(), routeB{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
}

func TestPopTo_AbsentRouteIsNoop(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})
	historyBefore, stackBefore := m.history, m.stack

	m.PopTo(routeC{})

	assert.Equal(t, historyBefore, m.history)
	assert.Equal(t, stackBefore, m.stack)
}

func TestPopTo_TopRouteIsNoop(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})

	m.PopTo(routeB{})

	assert.Len(t, m.stack, 2)
	assertSynced(t, m)
}

func TestPopTo_UsesMostRecentOccurrence(t *testing.T) {
	m := NewManager()
	m.ReplaceStack([]Route{routeA{}, routeB{}, routeA{n: 1}, routeC{}})

	m.PopTo(routeA{})

	assert.Len(t, m.history, 3)
	assertSynced(t, m)
}

func TestPopToRoot(t *testing.T) {
	m := NewManager()
	m.PopToRoot()
	assert.Empty(t, m.stack)

	m.Push(routeA{})
	m.Push(routeB{})
	m.Push(routeC{})
	m.PopToRoot()

	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
}

func TestRoot_ResetsToSingleRoute(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Manager)
	}{
		{"empty", func(*Manager) {}},
		{"deep", func(m *Manager) {
			m.Push(routeA{})
			m.Push(routeB{})
			m.Push(routeC{})
		}},
		{"presenting", func(m *Manager) {
			m.Push(routeB{})
			m.Present("sheet", Sheet())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			tt.setup(m)

			m.Root(routeD{})

			assert.Equal(t, []string{routeD{}.RouteID()}, ids(m.history))
			assert.Len(t, m.stack, 1)
		})
	}
}

func TestReplaceStack(t *testing.T) {
	m := NewManager()
	m.Push(routeD{})

	m.ReplaceStack([]Route{routeA{}, routeB{}, routeC{}})

	assert.Equal(t, ids([]Route{routeA{}, routeB{}, routeC{}}), ids(m.history))
	assertSynced(t, m)
}

func TestPresentThenPop_ClearsModalOnly(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})

	m.Present("episode", Sheet(DetentMedium).WithDragIndicator(VisibilityHidden))
	require.True(t, m.IsPresenting(KindSheet))
	assert.False(t, m.IsPresenting(KindFullScreen))

	m.Pop()

	_, presenting := m.Presented()
	assert.False(t, presenting)
	assert.Len(t, m.history, 2)
	assert.Len(t, m.stack, 2)
}

func TestPresent_ReplacesActiveModal(t *testing.T) {
	m := NewManager()
	m.Present("first", Sheet())
	m.Present("second", FullScreen())

	p, ok := m.Presented()
	require.True(t, ok)
	assert.Equal(t, "second", p.View)
	assert.Equal(t, KindFullScreen, p.Style.Kind())
}

func TestEquivalence_RecordedAndResolved(t *testing.T) {
	m := NewManager()
	m.Push(routeD{})
	m.Push(routeA{})

	m.CheckRouteEquivalenceNecessary(routeB{})
	assert.Equal(t, map[string]string{routeA{}.RouteID(): routeB{}.RouteID()}, m.equivalences)

	m.Push(routeC{})
	m.PushOrPop(routeA{})
	assert.Equal(t, ids([]Route{routeD{}, routeA{}}), ids(m.history))

	m.Push(routeC{})
	m.PushOrPop(routeB{})
	assert.Equal(t, ids([]Route{routeD{}, routeA{}}), ids(m.history))
	assertSynced(t, m)
}

func TestEquivalence_SkippedForSameOrKnownIdentity(t *testing.T) {
	m := NewManager()
	m.CheckRouteEquivalenceNecessary(routeB{})
	assert.Empty(t, m.equivalences, "empty history records nothing")

	m.Push(routeA{})
	m.CheckRouteEquivalenceNecessary(routeA{n: 3})
	assert.Empty(t, m.equivalences, "same identity as top records nothing")

	m.CheckRouteEquivalenceNecessary(routeB{})
	m.Push(routeC{})
	m.CheckRouteEquivalenceNecessary(routeB{})
	assert.Equal(t, map[string]string{routeA{}.RouteID(): routeB{}.RouteID()}, m.equivalences)
}

func TestPopTo_ResolvesEquivalentIdentity(t *testing.T) {
	m := NewManager()
	m.Push(routeD{})
	m.Push(routeA{})
	m.CheckRouteEquivalenceNecessary(routeB{})
	m.Push(routeC{})

	m.PopTo(routeB{})

	assert.Equal(t, ids([]Route{routeD{}, routeA{}}), ids(m.history))
}

func TestExternalBackGesture_TrimsHistoryAndPrunesEquivalences(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})
	m.CheckRouteEquivalenceNecessary(routeD{})
	m.Push(routeC{})
	require.Contains(t, m.equivalences, routeB{}.RouteID())

	m.SetStack(m.Stack()[:1])

	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))
	assert.NotContains(t, m.equivalences, routeB{}.RouteID())
	assert.NotContains(t, m.equivalences, routeC{}.RouteID())
}

func TestDismiss_TrimsFlowThenClearsModal(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})
	m.Push(routeC{})
	m.Present("modal", FullScreen())

	m.Dismiss(routeA{})

	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
	_, presenting := m.Presented()
	assert.False(t, presenting)
}

func TestDismiss_WithoutModalPopsFlowHost(t *testing.T) {
	m := NewManager()
	m.Push(routeD{})
	m.Push(routeA{})
	m.Push(routeB{})

	m.Dismiss(routeA{})

	assert.Equal(t, []string{routeD{}.RouteID()}, ids(m.history))
	assertSynced(t, m)

	m.Dismiss(routeA{})
	assert.Equal(t, []string{routeD{}.RouteID()}, ids(m.history), "flow root no longer in history")
	assertSynced(t, m)
}

func TestDismiss_TwiceIsNoop(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.Push(routeB{})
	m.Push(routeC{})
	m.Present("modal", Sheet(DetentLarge))

	m.Dismiss(routeA{})
	require.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))

	m.Dismiss(routeA{})
	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
}

func TestDismiss_FlowRootOnTopPopsIt(t *testing.T) {
	m := NewManager()
	m.Push(routeD{})
	m.Push(routeA{})

	m.Dismiss(routeA{})
	assert.Equal(t, []string{routeD{}.RouteID()}, ids(m.history))

	// The same flow opened again can be dismissed again.
	m.Push(routeA{})
	m.Dismiss(routeA{})
	assert.Equal(t, []string{routeD{}.RouteID()}, ids(m.history))
	assertSynced(t, m)
}

func TestSetStack_RejectsGrowthAndRewrites(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})

	m.SetStack([]Route{routeA{}, routeB{}})
	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.stack))
	assertSynced(t, m)

	m.Push(routeB{})
	m.SetStack([]Route{routeC{}})
	assert.Len(t, m.stack, 2)
	assertSynced(t, m)

	m.Pop()
	m.Pop()
	assert.Empty(t, m.stack)
	assert.Empty(t, m.history)
}

func TestNilRoutesAreNoops(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})

	require.NotPanics(t, func() {
		m.Push(nil)
		m.PushOrPop(nil)
		m.PopTo(nil)
		m.Dismiss(nil)
		m.Root(nil)
		m.CheckRouteEquivalenceNecessary(nil)
	})
	assert.Equal(t, []string{routeA{}.RouteID()}, ids(m.history))
	assertSynced(t, m)

	m.ReplaceStack([]Route{routeB{}, nil, routeC{}})
	assert.Equal(t, []string{routeB{}.RouteID(), routeC{}.RouteID()}, ids(m.stack))
	assertSynced(t, m)
}

func TestRoot_LeavesStaleEquivalences(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	m.CheckRouteEquivalenceNecessary(routeB{})

	m.Root(routeC{})

	assert.Contains(t, m.equivalences, routeA{}.RouteID())
}

func TestSubscribe_NotifiedOnChange(t *testing.T) {
	m := NewManager()
	var calls int
	unsubscribe := m.Subscribe(func() { calls++ })

	m.Push(routeA{})
	m.Present("x", Sheet())
	m.DismissPresented()
	m.DismissPresented()
	assert.Equal(t, 3, calls)

	unsubscribe()
	m.Push(routeB{})
	assert.Equal(t, 3, calls)
}

func TestStack_ReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Push(routeA{})
	s := m.Stack()
	s[0] = routeB{}
	assert.True(t, SameRoute(routeA{}, m.Stack()[0]))
}
