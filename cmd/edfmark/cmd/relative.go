package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edfmark/internal/application"
	"edfmark/internal/application/commands"
	"edfmark/internal/logging"
)

var relativeCmd = &cobra.Command{
	Use:   "relative",
	Short: "Write event offsets from the recording start into the spreadsheets",
	Long: `Write each event's offset from the EDF recording start into the
relative-time column of its spreadsheet, with a PENDING status.

Run this before convert to review the timings without touching any EDF
file. Rollback clears the column again.

Examples:
  edfmark relative
  edfmark relative -b /data/eeg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, restore, err := logging.Setup(GetLibrary().Base())
		if err != nil {
			return err
		}
		defer restore()

		result, err := commands.NewRelativeCommand(GetLibrary(), GetSheets()).Execute(context.Background())
		if errors.Is(err, application.ErrNoPairs) {
			fmt.Println("No EDF/spreadsheet pairs found.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Marked %d rows across %d sheets (%d recordings)\n", result.Marked, result.Sheets, result.Pairs)
		fmt.Printf("Log written to %s\n", logPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relativeCmd)
}
