package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/navigation"
)

// Navigator is the top-level Bubble Tea model. It owns the navigation
// manager, renders the root screen with one screen per stack entry above
// it, and overlays whatever the manager presents.
//
// Coordinators mutate the manager from inside Update. The Navigator
// subscribes to the manager and, after a message that changed navigation
// state, reconciles its screens with the manager's stack.
type Navigator struct {
	env      *env
	cancel   context.CancelFunc
	manager  *navigation.Manager
	registry *navigation.Registry
	main     *MainCoordinator

	resolvers []navigation.DestinationResolver
	entries   []stackEntry
	top       Screen

	modal      Screen
	modalStyle navigation.PresentationStyle

	dirty       bool
	unsubscribe func()

	ticking bool
	width   int
	height  int
}

type stackEntry struct {
	key    string
	screen Screen
}

// NewNavigator builds the navigation tree. The manager is not wired to the
// routers until Init runs.
func NewNavigator(opts Options) *Navigator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = model.DefaultSearchDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Navigator{
		cancel:   cancel,
		manager:  navigation.NewManager(navigation.WithLogger(logger.Named("navigation"))),
		registry: navigation.NewRegistry(),
	}
	n.env = &env{
		ctx:      ctx,
		catalog:  opts.Catalog,
		registry: n.registry,
		nav:      n,
		keys:     DefaultKeyMap(),
		logger:   logger,
		debounce: debounce,
		reverse:  opts.ReverseScrollWheel,
	}
	n.main = newMainCoordinator(n.env)
	n.addResolver(n.main)
	return n
}

// Manager exposes the navigation state, mainly for tests.
func (n *Navigator) Manager() *navigation.Manager { return n.manager }

// Close cancels fetches still in flight.
func (n *Navigator) Close() {
	n.cancel()
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}

func (n *Navigator) Init() tea.Cmd {
	n.manager.Attach(n.registry)
	if n.unsubscribe == nil {
		n.unsubscribe = n.manager.Subscribe(func() { n.dirty = true })
	}
	root := n.rootScreen()
	n.top = root
	return tea.Batch(root.Init(), n.appear(root), n.startSpinner())
}

func (n *Navigator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		n.width = msg.Width
		n.height = msg.Height
		return n, nil

	case SpinnerTickMsg:
		n.ticking = false
		return n, n.startSpinner()

	case tea.KeyMsg:
		cmd, quit := n.handleKey(msg)
		if quit {
			n.Close()
			return n, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		cmds = append(cmds, n.focused().Update(msg))

	default:
		cmds = append(cmds, n.broadcast(msg))
	}

	cmds = append(cmds, n.sync(), n.startSpinner())
	return n, tea.Batch(cmds...)
}

func (n *Navigator) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	keys := n.env.keys
	if key.Matches(msg, keys.ForceQuit) {
		return nil, true
	}

	if n.modal != nil {
		if key.Matches(msg, keys.Back) {
			n.manager.DismissPresented()
			return nil, false
		}
		return n.modal.Update(msg), false
	}

	top := n.focused()
	if c, ok := top.(inputCapturer); ok && c.CapturingInput() {
		return top.Update(msg), false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return nil, true
	case key.Matches(msg, keys.Back):
		n.back()
		return nil, false
	case key.Matches(msg, keys.Help):
		n.main.ShowHelp()
		return nil, false
	}
	return top.Update(msg), false
}

// back is the native back action: it drops the top stack entry without
// going through a Router.
func (n *Navigator) back() {
	stack := n.manager.Stack()
	if len(stack) == 0 {
		return
	}
	n.manager.SetStack(stack[:len(stack)-1])
}

// broadcast delivers non-input messages to every live screen. Results are
// tagged, so screens ignore the ones that are not theirs.
func (n *Navigator) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{n.rootScreen().Update(msg)}
	for _, e := range n.entries {
		cmds = append(cmds, e.screen.Update(msg))
	}
	if n.modal != nil {
		cmds = append(cmds, n.modal.Update(msg))
	}
	return tea.Batch(cmds...)
}

// sync rebuilds the screens above the first stack entry that changed and
// picks up the presented modal. It does nothing until the manager reports a
// change.
func (n *Navigator) sync() tea.Cmd {
	if !n.dirty {
		return nil
	}
	n.dirty = false

	var cmds []tea.Cmd
	stack := n.manager.Stack()

	keep := 0
	for keep < len(stack) && keep < len(n.entries) && n.entries[keep].key == stackKey(stack[keep]) {
		keep++
	}
	for i := len(n.entries) - 1; i >= keep; i-- {
		closeScreen(n.entries[i].screen)
	}
	n.entries = slices.Clip(n.entries[:keep])
	for _, route := range stack[keep:] {
		screen := n.resolve(route)
		n.entries = append(n.entries, stackEntry{key: stackKey(route), screen: screen})
		cmds = append(cmds, screen.Init())
	}

	if p, ok := n.manager.Presented(); ok {
		screen, isScreen := p.View.(Screen)
		if !isScreen {
			n.env.logger.Warn("presented view is not a screen; dismissing")
			n.manager.DismissPresented()
			screen = nil
		}
		if screen != nil && screen != n.modal {
			closeScreen(n.modal)
			n.modal = screen
			n.modalStyle = p.Style
			cmds = append(cmds, screen.Init())
		}
	}
	if _, ok := n.manager.Presented(); !ok && n.modal != nil {
		closeScreen(n.modal)
		n.modal = nil
	}

	if top := n.stackTop(); top != n.top {
		n.top = top
		cmds = append(cmds, n.appear(top))
	}
	return tea.Batch(cmds...)
}

func (n *Navigator) appear(s Screen) tea.Cmd {
	if a, ok := s.(appearer); ok {
		return a.Appear()
	}
	return nil
}

func closeScreen(s Screen) {
	if c, ok := s.(closer); ok {
		c.Close()
	}
}

func (n *Navigator) startSpinner() tea.Cmd {
	if n.ticking || !n.loading() {
		return nil
	}
	n.ticking = true
	return spinnerTick()
}

func (n *Navigator) loading() bool {
	screens := []Screen{n.rootScreen()}
	for _, e := range n.entries {
		screens = append(screens, e.screen)
	}
	if n.modal != nil {
		screens = append(screens, n.modal)
	}
	return slices.ContainsFunc(screens, func(s Screen) bool {
		l, ok := s.(loader)
		return ok && l.Loading()
	})
}

func (n *Navigator) addResolver(r navigation.DestinationResolver) {
	n.resolvers = append(n.resolvers, r)
}

func (n *Navigator) removeResolver(r navigation.DestinationResolver) {
	n.resolvers = slices.DeleteFunc(n.resolvers, func(x navigation.DestinationResolver) bool { return x == r })
}

// resolve asks the most recently added resolver first, so the innermost
// flow wins.
func (n *Navigator) resolve(route navigation.Route) Screen {
	for i := len(n.resolvers) - 1; i >= 0; i-- {
		view, ok := n.resolvers[i].Resolve(route)
		if !ok {
			continue
		}
		if s, ok := view.(Screen); ok {
			return s
		}
	}
	n.env.logger.Warn("no destination for route", zap.String("route", route.RouteID()))
	return &missingScreen{route: route}
}

func (n *Navigator) rootScreen() Screen {
	return n.main.dashboard
}

func (n *Navigator) stackTop() Screen {
	if len(n.entries) == 0 {
		return n.rootScreen()
	}
	return n.entries[len(n.entries)-1].screen
}

// focused is the screen that receives input.
func (n *Navigator) focused() Screen {
	if n.modal != nil {
		return n.modal
	}
	return n.stackTop()
}

func (n *Navigator) View() string {
	if n.width <= 0 || n.height <= 0 {
		return "Initializing..."
	}

	if n.modal != nil && n.modalStyle.Kind() == navigation.KindFullScreen {
		return n.modal.View(n.width, n.height)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		n.renderBreadcrumb(),
		n.stackTop().View(n.width, n.height-1),
	)
	if n.modal != nil {
		return renderSheet(body, n.modal, n.modalStyle, n.width, n.height)
	}
	return body
}

func (n *Navigator) renderBreadcrumb() string {
	titles := []string{n.rootScreen().Title()}
	for _, e := range n.entries {
		titles = append(titles, e.screen.Title())
	}
	last := len(titles) - 1
	crumbs := breadcrumbStyle.Render(strings.Join(titles[:last], " › "))
	if last > 0 {
		crumbs += breadcrumbStyle.Render(" › ")
	}
	crumbs += titleStyle.Render(titles[last])
	return lipgloss.NewStyle().MaxWidth(n.width).Render(crumbs)
}
