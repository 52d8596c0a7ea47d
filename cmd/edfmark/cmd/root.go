package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edfmark/internal/adapters/filesystem"
	"edfmark/internal/adapters/xlsx"
	"edfmark/internal/config"
	"edfmark/internal/ports"
)

var (
	basePath string
	library  ports.RecordingLibrary
	sheets   ports.EventSheet
)

var rootCmd = &cobra.Command{
	Use:   "edfmark",
	Short: "Batch converter for EDF recordings with spreadsheet event markers",
	Long: `edfmark converts raw EDF recordings to EDF+ files carrying the event
annotations kept in companion spreadsheets.

It walks the session directories under a base path, pairs each EDF file
with its spreadsheet by shared date token, reconciles header and data
durations, aligns the events to the sample grid and writes the result
as an EDF+ file with an annotations channel. Classification decisions
are written back into the spreadsheets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		library = filesystem.NewLibrary(basePath)
		sheets = xlsx.NewSheet(config.DefaultColumns())
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&basePath, "base", "b", config.BasePath(), "base directory holding the session folders")
}

// GetLibrary returns the initialized recording library
func GetLibrary() ports.RecordingLibrary {
	return library
}

// GetSheets returns the initialized spreadsheet access
func GetSheets() ports.EventSheet {
	return sheets
}
