package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"edfmark/internal/adapters/sqlite"
	"edfmark/internal/domain"
)

var statusLimit int

var (
	runStyle   = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")) // Green
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")) // Amber
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")) // Gray
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent conversion runs",
	Long: `Show the most recent conversion runs recorded in the run index,
with the failed pairs of each run and the stage they failed at.

Examples:
  edfmark status
  edfmark status -n 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := sqlite.DatabasePath(GetLibrary().Base())
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Println("No recorded runs.")
			return nil
		}

		idx, err := sqlite.Open(dbPath)
		if err != nil {
			return err
		}
		defer idx.Close()

		runs, err := idx.RecentRuns(statusLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		for _, run := range runs {
			counts := fmt.Sprintf("%d/%d converted", run.Succeeded, run.Total)
			if run.Succeeded == run.Total {
				counts = okStyle.Render(counts)
			} else {
				counts = warnStyle.Render(counts)
			}
			fmt.Printf("%s  %s  %s\n",
				runStyle.Render(run.StartedAt.Local().Format("2006-01-02 15:04")),
				counts,
				mutedStyle.Render(run.ID))

			pairs, err := idx.PairsForRun(run.ID)
			if err != nil {
				return err
			}
			for _, pair := range pairs {
				if pair.Status == domain.PairConverted {
					continue
				}
				detail := pair.Error
				if pair.Stage != "" {
					detail = fmt.Sprintf("%s: %s", pair.Stage, pair.Error)
				}
				fmt.Printf("  %s %s %s\n",
					warnStyle.Render(pair.Status),
					filepath.Base(pair.EDFPath),
					mutedStyle.Render(detail))
			}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
