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

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Undo previous conversions",
	Long: `Restore every backed-up EDF file to its original name, remove the
converted outputs and blank the relative-time columns written by the
relative command.

Examples:
  edfmark rollback
  edfmark rollback -b /data/eeg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, restore, err := logging.Setup(GetLibrary().Base())
		if err != nil {
			return err
		}
		defer restore()

		result, err := commands.NewRollbackCommand(GetLibrary(), GetSheets()).Execute(context.Background())
		if errors.Is(err, application.ErrNoBackups) {
			fmt.Println("Nothing to roll back.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Restored %d recordings, removed %d outputs, cleared %d sheets\n",
			len(result.Restored), result.Removed, result.Cleared)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}
