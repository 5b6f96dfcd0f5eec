package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze"
	"github.com/vovakirdan/ghostmaze/internal/registry"
	"github.com/vovakirdan/ghostmaze/internal/storage"
)

// statusDuration is how long a status line stays on screen.
const statusDuration = 3 * time.Second

// CueSink receives the cues a game emits each tick.
type CueSink interface {
	Play(cue core.Cue)
}

// Options carries the optional collaborators of a game session. Every field
// may be left zero.
type Options struct {
	Store  *storage.Store
	Sound  CueSink
	Logger *log.Logger
	// Reload delivers map file paths that changed on disk.
	Reload <-chan string
}

// roundReporter is implemented by games that can describe a round in detail.
type roundReporter interface {
	Summary() ghostmaze.Summary
}

// mapReloader is implemented by games that can reload their map file.
type mapReloader interface {
	ReloadMap() error
}

// resizer is implemented by games that can relayout without a reset.
type resizer interface {
	Resize(w, h int)
}

// ReloadMsg reports that the map file changed on disk.
type ReloadMsg struct {
	Path string
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	allowBack  bool // B/Esc returns to a menu instead of doing nothing
	quitOnBack bool // the menu runs as a separate program
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over

	status      string
	statusUntil time.Time
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tea.Batch(tickCmd(m.config.TickRate), waitForReload(m.opts.Reload))
}

// waitForReload blocks until the next map change.
func waitForReload(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg{Path: path}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case ReloadMsg:
		return m.handleReload(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.allowBack && m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.quitOnBack {
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	for _, cue := range result.Cues {
		if m.opts.Sound != nil {
			m.opts.Sound.Play(cue)
		}
		m.logger.Debug("cue", "game", m.game.ID(), "cue", cue)
	}

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		m.recordRound()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordRound stores the finished round. Storage errors are logged and the
// game continues.
func (m *Model) recordRound() {
	score := m.gameState.Score
	var run *storage.Run
	if r, ok := m.game.(roundReporter); ok {
		sum := r.Summary()
		score = sum.Score
		run = &storage.Run{
			GameID:   m.game.ID(),
			LevelID:  sum.LevelID,
			Score:    sum.Score,
			Pellets:  sum.Stats.PelletsEaten,
			Fruits:   sum.Stats.FruitsEaten,
			Captures: sum.Stats.GhostsCaptured,
			Deaths:   sum.Stats.Deaths,
			Duration: sum.Elapsed,
		}
	}
	m.logger.Info("round over", "game", m.game.ID(), "score", score)

	if m.opts.Store == nil {
		return
	}
	if score > 0 {
		if _, err := m.opts.Store.SaveScore(m.game.ID(), score); err != nil {
			m.logger.Warn("could not save score", "error", err)
		}
	}
	if run != nil {
		if _, err := m.opts.Store.SaveRun(*run); err != nil {
			m.logger.Warn("could not save run", "error", err)
		}
	}
}

// handleReload reloads the map after a file change and keeps listening.
func (m Model) handleReload(msg ReloadMsg) (tea.Model, tea.Cmd) {
	next := waitForReload(m.opts.Reload)

	r, ok := m.game.(mapReloader)
	if !ok {
		return m, next
	}
	if err := r.ReloadMap(); err != nil {
		m.logger.Warn("map reload failed", "file", msg.Path, "error", err)
		m.setStatus("Reload failed: " + err.Error())
		return m, next
	}
	m.logger.Info("map reloaded", "file", msg.Path)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.setStatus("Map reloaded: " + filepath.Base(msg.Path))
	return m, next
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusUntil = time.Now().Add(statusDuration)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".ghostmaze", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.setStatus("Saved " + path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.status != "" && time.Now().Before(m.statusUntil) {
		y := m.screen.Height() - 1
		m.screen.DrawText(0, y, " "+m.status)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

// RunUntilBack runs a game that B/Esc leaves after game over or while
// paused. It reports whether the player quit instead of going back.
func RunUntilBack(game registry.Game, cfg core.RuntimeConfig, opts Options) (quit bool, err error) {
	model := NewModel(game, cfg, opts)
	model.allowBack = true
	model.quitOnBack = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return true, nil
	}
	return m.IsQuitting(), nil
}
