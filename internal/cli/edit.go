package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adforge/pkg/canvas"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/geom"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/session"
)

// Terminal canvas geometry. A cell is about twice as tall as it is wide, so
// one row covers two layout units per column.
const (
	editHeaderLines = 3
	editFooterLines = 3
	editCellAspect  = 2
	minCanvasCols   = 16
	maxCanvasCols   = 96
)

// Element styles
var (
	editGlyphs = map[canvas.ElementKind]string{
		canvas.Packshot:   "P",
		canvas.Logo:       "L",
		canvas.Headline:   "H",
		canvas.CTA:        "C",
		canvas.Decoration: "*",
	}
	editElementStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim)
	editActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorCyan)
	editHelpStyle    = lipgloss.NewStyle().Foreground(colorDim)
	editStateStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	assets  assetFlags
	preview string
	cache   cacheFlags
}

// editCommand creates the edit command, a mouse-driven layout editor.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit [layout file]",
		Short: "Drag and resize layout elements in the terminal",
		Long: `Edit opens a layout file in a terminal canvas.

Drag an element with the mouse to move it; hold shift when pressing to
resize it instead. Press s to save the layout and re-render the preview,
q to quit.`,
		Example: `  adforge edit creatives/creative-9-16.layout.json --packshot shoe.png --logo logo.png --headline "Run further" --cta "Shop now"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], opts)
		},
	}

	opts.assets.register(cmd)
	cmd.Flags().StringVarP(&opts.preview, "output", "o", "", "preview file written on save (default: layout name with .png)")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, opts editOpts) error {
	l, err := creative.ReadLayoutFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache, opts.assets.removeBG)
	if err != nil {
		return err
	}
	defer runner.Close()

	in, err := opts.assets.load(ctx, runner)
	if err != nil {
		return err
	}
	cfg := pipeline.RenderConfig{}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}

	preview := opts.preview
	if preview == "" {
		preview = outputPath(path, cfg.Format.Ext())
	}
	renderFn := func(ctx context.Context, l creative.Layout) ([]byte, error) {
		return runner.Render(ctx, l, in, cfg)
	}

	m := newEditModel(l, path, preview, renderFn)
	final, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	if err != nil {
		return err
	}

	if em, ok := final.(editModel); ok {
		if em.dirty {
			printWarning("Quit with unsaved changes")
		} else if em.saves > 0 {
			printSuccess("Saved %d time(s)", em.saves)
			printFile(path)
			printFile(preview)
		}
	}
	return nil
}

// =============================================================================
// editModel - Interactive layout editor
// =============================================================================

// savedMsg reports the outcome of a save command.
type savedMsg struct {
	size int
	err  error
}

// editModel is the bubbletea model of the terminal editor. It feeds mouse
// events to a canvas.Controller; one terminal cell is one screen pixel.
type editModel struct {
	ctrl    *canvas.Controller
	path    string
	preview string
	render  session.RenderFunc
	cols    int
	status  string
	dirty   bool
	saving  bool
	saves   int
}

func newEditModel(l creative.Layout, path, preview string, render session.RenderFunc) editModel {
	m := editModel{path: path, preview: preview, render: render, cols: 60}
	m.ctrl = canvas.NewController(l, canvas.WithScale(m.scale(l)))
	return m
}

func (m editModel) scale(l creative.Layout) float64 {
	return float64(m.cols) / float64(l.Width)
}

func (m editModel) rows() int {
	l := m.ctrl.Layout()
	return int(float64(l.Height)*m.scale(l)/editCellAspect + 0.5)
}

// fit sizes the canvas to the terminal.
func (m *editModel) fit(width, height int) {
	l := m.ctrl.Layout()
	cols := min(width, maxCanvasCols)
	if avail := height - editHeaderLines - editFooterLines; avail > 0 {
		cols = min(cols, avail*editCellAspect*l.Width/l.Height)
	}
	m.cols = max(cols, minCanvasCols)
	m.ctrl.SetScale(m.scale(l))
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			if m.saving {
				return m, nil
			}
			m.saving = true
			m.status = "saving..."
			return m, m.save()
		}
	case tea.MouseMsg:
		m.pointer(msg)
	case tea.WindowSizeMsg:
		if m.ctrl.State() == canvas.Idle {
			m.fit(msg.Width, msg.Height)
		}
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "save failed: " + errors.UserMessage(msg.err)
			return m, nil
		}
		m.dirty = false
		m.saves++
		m.status = fmt.Sprintf("saved %s (%s)", filepath.Base(m.preview), formatBytes(msg.size))
	}
	return m, nil
}

// pointer translates a terminal mouse event into controller input.
func (m *editModel) pointer(msg tea.MouseMsg) {
	row := msg.Y - editHeaderLines
	ev := canvas.Event{
		X:     float64(msg.X) + 0.5,
		Y:     (float64(row) + 0.5) * editCellAspect,
		Shift: msg.Shift,
	}
	inside := msg.X >= 0 && msg.X < m.cols && row >= 0 && row < m.rows()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && inside {
			m.ctrl.PointerDown(ev)
		}
	case tea.MouseActionMotion:
		if !inside {
			m.ctrl.PointerLeave(ev)
			return
		}
		if _, changed := m.ctrl.PointerMove(ev); changed {
			m.dirty = true
		}
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(ev)
	}
}

// save writes the layout file, renders it and writes the preview.
func (m editModel) save() tea.Cmd {
	l := m.ctrl.Layout()
	path, preview, render := m.path, m.preview, m.render
	return func() tea.Msg {
		if err := creative.WriteLayoutFile(path, l); err != nil {
			return savedMsg{err: err}
		}
		data, err := render(context.Background(), l)
		if err != nil {
			return savedMsg{err: err}
		}
		if err := os.WriteFile(preview, data, 0o644); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{size: len(data)}
	}
}

func (m editModel) View() string {
	l := m.ctrl.Layout()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %s %s", filepath.Base(m.path), l.Ratio, l.Template.DisplayName())))
	b.WriteString("\n")
	b.WriteString(editHelpStyle.Render("drag: move  shift+drag: resize  s: save  q: quit"))
	b.WriteString("\n\n")

	b.WriteString(m.canvasView(l))
	b.WriteString("\n\n")

	state := m.ctrl.State().String()
	if ref, ok := m.ctrl.Active(); ok {
		box, _ := canvas.Box(l, ref)
		verb := "moving"
		if m.ctrl.Resizing() {
			verb = "resizing"
		}
		state = fmt.Sprintf("%s %s  %.0f,%.0f  %.0fx%.0f", verb, ref, box.X, box.Y, box.Width, box.Height)
	}
	b.WriteString(editStateStyle.Render(state))
	if m.dirty {
		b.WriteString(StyleWarning.Render("  modified"))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(editHelpStyle.Render(m.status))
	}
	return b.String()
}

// canvasView draws the element under the centre of every cell.
func (m editModel) canvasView(l creative.Layout) string {
	scale := m.scale(l)
	active, dragging := m.ctrl.Active()
	empty := lipgloss.NewStyle().Background(lipgloss.Color(l.Background))

	rows := m.rows()
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c := 0; c < m.cols; c++ {
			p := geom.Point{X: (float64(c) + 0.5) / scale, Y: (float64(r) + 0.5) * editCellAspect / scale}
			ref, ok := canvas.HitTest(l, p)
			switch {
			case !ok:
				line.WriteString(empty.Render(" "))
			case dragging && ref == active:
				line.WriteString(editActiveStyle.Render(editGlyphs[ref.Kind]))
			default:
				line.WriteString(editElementStyle.Render(editGlyphs[ref.Kind]))
			}
		}
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}
