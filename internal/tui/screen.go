package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/navigation"
)

// Screen is the renderable a coordinator resolves a route to.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	Title() string
}

// appearer is told every time it becomes the visible top of the stack.
type appearer interface {
	Appear() tea.Cmd
}

// closer is told when its stack entry is gone for good.
type closer interface {
	Close()
}

// loader reports in-flight fetches, which keep the spinner ticking.
type loader interface {
	Loading() bool
}

// inputCapturer owns every key while it is editing text.
type inputCapturer interface {
	CapturingInput() bool
}

// Catalog is what the screens read from.
type Catalog interface {
	model.CatalogReader
	EpisodesBySeason(ctx context.Context, seasons []model.Season) ([]model.SeasonEpisodes, error)
}

// Options configures a Navigator.
type Options struct {
	Catalog            Catalog
	Logger             *zap.Logger
	SearchDebounce     time.Duration
	ReverseScrollWheel bool
}

// env is shared by the coordinators and screens of one program.
type env struct {
	ctx      context.Context
	catalog  Catalog
	registry *navigation.Registry
	nav      *Navigator
	keys     KeyMap
	logger   *zap.Logger
	debounce time.Duration
	reverse  bool
}

// missingScreen stands in for a route no coordinator could resolve.
type missingScreen struct {
	route navigation.Route
}

func (s missingScreen) Init() tea.Cmd          { return nil }
func (s missingScreen) Update(tea.Msg) tea.Cmd { return nil }
func (s missingScreen) Title() string          { return "?" }
func (s missingScreen) View(width, height int) string {
	return errorStyle.Render("no destination for " + s.route.RouteID())
}
