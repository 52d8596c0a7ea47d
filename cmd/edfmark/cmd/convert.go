package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edfmark/internal/adapters/sqlite"
	"edfmark/internal/application"
	"edfmark/internal/application/commands"
	"edfmark/internal/config"
	"edfmark/internal/domain"
	"edfmark/internal/logging"
	"edfmark/internal/ports"
)

var (
	driftThreshold  float64
	paddingPolicy   string
	referenceSource string
	noMarkers       bool
	noIndex         bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every EDF/spreadsheet pair to an annotated EDF+ file",
	Long: `Convert every EDF/spreadsheet pair under the base path.

Each original file is renamed aside as a backup before the EDF+ output
is written, so a conversion can always be undone with rollback. Event
classifications land in the spreadsheet status column.

Examples:
  edfmark convert
  edfmark convert -b /data/eeg --padding edge-hold
  edfmark convert --reference first-event --no-markers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, restore, err := logging.Setup(GetLibrary().Base())
		if err != nil {
			return err
		}
		defer restore()

		opts := config.DefaultOptions()
		opts.DriftThreshold = driftThreshold
		opts.Padding = domain.ParsePaddingPolicy(paddingPolicy)
		opts.Reference = domain.ParseReferenceSource(referenceSource)
		if noMarkers {
			opts.MarkerCodes = nil
		}

		var index ports.RunIndex
		if !noIndex {
			idx, err := sqlite.Open(sqlite.DatabasePath(GetLibrary().Base()))
			if err != nil {
				return err
			}
			defer idx.Close()
			index = idx
		}

		result, err := commands.NewConvertCommand(GetLibrary(), GetSheets(), index, opts).Execute(context.Background())
		if errors.Is(err, application.ErrNoPairs) {
			fmt.Println("No EDF/spreadsheet pairs found.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Converted %d of %d pairs (run %s)\n", result.Succeeded, result.Total, result.RunID)
		fmt.Printf("Log written to %s\n", logPath)
		return nil
	},
}

func init() {
	convertCmd.Flags().Float64Var(&driftThreshold, "drift-threshold", config.DefaultOptions().DriftThreshold, "largest header/data duration mismatch in seconds left uncorrected")
	convertCmd.Flags().StringVar(&paddingPolicy, "padding", domain.PadZeroFill.String(), "how short recordings are extended: zero-fill or edge-hold")
	convertCmd.Flags().StringVar(&referenceSource, "reference", domain.RefEDFStart.String(), "instant treated as t=0: edf-start or first-event")
	convertCmd.Flags().BoolVar(&noMarkers, "no-markers", false, "do not append the synthetic marker channel")
	convertCmd.Flags().BoolVar(&noIndex, "no-index", false, "do not record the run in the run index")
	rootCmd.AddCommand(convertCmd)
}
