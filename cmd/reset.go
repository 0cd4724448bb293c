package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sproutmath/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("this wipes all local progress; re-run with --force to confirm")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Reset(); err != nil {
			return err
		}
		fmt.Println("All local progress cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Confirm wiping all local progress")
}
