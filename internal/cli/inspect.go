package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orrery/pkg/scene"
	"github.com/matzehuels/orrery/pkg/snapshot"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	seed    int64
	planets int
	stars   int
	moons   bool
	from    string
}

// inspectCommand creates the inspect command, which prints the
// generated objects for a seed without rendering anything.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{seed: defaultSeed, planets: 6, stars: 1, moons: true}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the generated objects for a seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := opts.seed
			cfg := c.sceneConfig(&renderOpts{
				planets: opts.planets,
				stars:   opts.stars,
				moons:   opts.moons,
			})
			if opts.from != "" {
				var err error
				seed, cfg, err = snapshot.Import(opts.from)
				if err != nil {
					return err
				}
			}
			printScene(scene.Build(seed, cfg))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&opts.seed, "seed", "s", opts.seed, "generation seed")
	cmd.Flags().IntVarP(&opts.planets, "planets", "p", opts.planets, "number of planets")
	cmd.Flags().IntVar(&opts.stars, "stars", opts.stars, "number of stars")
	cmd.Flags().BoolVar(&opts.moons, "moons", opts.moons, "generate moons")
	cmd.Flags().StringVar(&opts.from, "from", "", "snapshot file to inspect instead of generating")

	return cmd
}

// printScene renders the scene contents as terminal tables.
func printScene(s *scene.Scene) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("System %d", s.Seed)))

	kinds := make([]string, len(s.Stars))
	for i, st := range s.Stars {
		kinds[i] = string(st.Kind)
	}
	printKeyValue("stars", strings.Join(kinds, ", "))
	printKeyValue("planets", fmt.Sprintf("%d", len(s.Planets)))
	printKeyValue("moons", fmt.Sprintf("%d", s.MoonCount()))
	printKeyValue("belts", fmt.Sprintf("%d", len(s.Belts)))
	printKeyValue("stations", fmt.Sprintf("%d", len(s.Stations)))
	printNewline()

	if len(s.Planets) > 0 {
		rows := make([][]string, len(s.Planets))
		for i, p := range s.Planets {
			ring := "—"
			if p.Ring != nil {
				ring = fmt.Sprintf("%.0f wide", p.Ring.Width)
			}
			rows[i] = []string{
				fmt.Sprintf("%d", p.Index),
				p.Name,
				fmt.Sprintf("%.1f", p.OrbitRadius),
				fmt.Sprintf("%.1f", p.Size),
				fmt.Sprintf("%d", len(p.Moons)),
				ring,
				p.Color,
			}
		}
		fmt.Println(sceneTable([]string{"#", "Name", "Orbit", "Size", "Moons", "Ring", "Color"}, rows))
	}

	if len(s.Belts) > 0 {
		rows := make([][]string, len(s.Belts))
		for i, b := range s.Belts {
			rows[i] = []string{
				string(b.Kind),
				fmt.Sprintf("%.0f–%.0f", b.Inner, b.Outer),
				fmt.Sprintf("%d", len(b.Particles)),
			}
		}
		fmt.Println(sceneTable([]string{"Belt", "Radius", "Particles"}, rows))
	}

	if len(s.Stations) > 0 {
		rows := make([][]string, len(s.Stations))
		for i, st := range s.Stations {
			rows[i] = []string{
				st.Name,
				string(st.Icon),
				fmt.Sprintf("%.0f @ %.2f", st.Radius, st.Angle),
			}
		}
		fmt.Println(sceneTable([]string{"Station", "Icon", "Position"}, rows))
	}
}

// sceneTable builds a bordered table in the shared CLI style.
func sceneTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return StyleValue
		}).
		Render()
}
