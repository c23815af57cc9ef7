package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orrery/pkg/scene"
)

// browseCommand creates the browse command, an interactive seed
// explorer. Arrow keys step the seed and planet count; s exports the
// current system as a PNG.
func (c *CLI) browseCommand() *cobra.Command {
	opts := renderOpts{
		seed:    defaultSeed,
		planets: 6,
		stars:   1,
		moons:   true,
		width:   c.Config.Width,
		height:  c.Config.Height,
	}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Step through seeds interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp := NewExporter(c.newCache(cmd, false))
			defer exp.Close()

			model := newBrowseModel(c, &opts, exp)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(browseModel); ok && m.lastSaved != "" {
				printFile(m.lastSaved)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&opts.seed, "seed", "s", opts.seed, "starting seed")
	cmd.Flags().IntVarP(&opts.planets, "planets", "p", opts.planets, "number of planets")

	return cmd
}

// browseModel is the bubbletea model for the seed explorer.
type browseModel struct {
	cli  *CLI
	opts *renderOpts
	exp  *Exporter

	scene     *scene.Scene
	status    string
	lastSaved string
}

func newBrowseModel(c *CLI, opts *renderOpts, exp *Exporter) browseModel {
	m := browseModel{cli: c, opts: opts, exp: exp}
	m.rebuild()
	return m
}

// rebuild regenerates the scene after a seed or planet-count change.
func (m *browseModel) rebuild() {
	m.scene = scene.Build(m.opts.seed, m.cli.sceneConfig(m.opts))
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m.opts.seed++
		m.rebuild()
		m.status = ""
	case "left", "h":
		m.opts.seed--
		m.rebuild()
		m.status = ""
	case "up", "k":
		if m.opts.planets < scene.MaxPlanets {
			m.opts.planets++
			m.rebuild()
			m.status = ""
		}
	case "down", "j":
		if m.opts.planets > 0 {
			m.opts.planets--
			m.rebuild()
			m.status = ""
		}
	case "s":
		path := fmt.Sprintf("system_%d.png", m.opts.seed)
		data, err := m.exp.Export(context.Background(), m.scene, FormatPNG, m.opts.width, m.opts.height)
		if err != nil {
			m.status = StyleWarning.Render(fmt.Sprintf("export failed: %v", err))
			break
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			m.status = StyleWarning.Render(fmt.Sprintf("write failed: %v", err))
			break
		}
		m.lastSaved = path
		m.status = StyleSuccess.Render("saved " + path)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("System %d", m.scene.Seed)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ seed  ↑/↓ planets  s save PNG  q quit"))
	b.WriteString("\n\n")

	kinds := make([]string, len(m.scene.Stars))
	for i, st := range m.scene.Stars {
		kinds[i] = string(st.Kind)
	}
	b.WriteString(fmt.Sprintf("  %s %s\n",
		lipgloss.NewStyle().Foreground(colorGray).Width(10).Render("stars"),
		StyleValue.Render(strings.Join(kinds, ", "))))

	for _, p := range m.scene.Planets {
		ring := ""
		if p.Ring != nil {
			ring = StyleDim.Render("  ◦ ringed")
		}
		b.WriteString(fmt.Sprintf("  %s %s%s\n",
			lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(fmt.Sprintf("r=%.0f", p.OrbitRadius)),
			StyleValue.Render(fmt.Sprintf("%-18s %d moons", p.Name, len(p.Moons))),
			ring))
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	return b.String()
}
