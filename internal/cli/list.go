package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemstar/pkg/lockfile"
	"github.com/matzehuels/gemstar/pkg/version"
)

// listCommand creates the list command, which shows changed gems without
// any network access.
func (c *CLI) listCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gems whose locked version changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			filter, err := cfg.FilterRegexp()
			if err != nil {
				return err
			}
			prev, next, err := c.loadSnapshots(cfg)
			if err != nil {
				return err
			}

			changes := selectChanges(lockfile.Diff(prev, next), filter)
			if len(changes) == 0 {
				printInfo("No gem updates between %s and %s", cfg.From, toLabel(cfg))
				return nil
			}
			fmt.Println(changesTable(changes))
			printDetail("%d gems changed", len(changes))
			return nil
		},
	}

	flags.registerSnapshotFlags(cmd)
	return cmd
}

// changeKind classifies a change for display.
func changeKind(ch lockfile.Change) string {
	switch {
	case ch.Added():
		return "added"
	case version.Compare(ch.New, ch.Old) < 0:
		return "downgraded"
	default:
		return "upgraded"
	}
}

// changesTable renders changes as a bordered table.
func changesTable(changes []lockfile.Change) string {
	rows := make([][]string, len(changes))
	for i, ch := range changes {
		old := ch.Old
		if ch.Added() {
			old = "—"
		}
		rows[i] = []string{ch.Name, old, ch.New, changeKind(ch)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Gem", "Old", "New", "Change").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col != 3 || row >= len(rows) {
				return cell
			}
			switch rows[row][3] {
			case "added":
				return cell.Inherit(styleAdded)
			case "downgraded":
				return cell.Inherit(styleDowngraded)
			}
			return cell
		})
	return t.Render()
}
