package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push pending activity to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := buildEngine(ctx, cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		if !eng.Recorder.Online() {
			return fmt.Errorf("no backend configured; set --backend or SPROUTMATH_BACKEND_DSN")
		}

		before, err := eng.Store.OutboxCount()
		if err != nil {
			return err
		}
		if before == 0 {
			fmt.Println(dimStyle.Render("Nothing to sync."))
			return nil
		}

		if err := eng.Sync(ctx); err != nil {
			return err
		}
		after, err := eng.Store.OutboxCount()
		if err != nil {
			return err
		}
		fmt.Println(correctStyle.Render(fmt.Sprintf("Synced %d operation(s).", before-after)))
		return nil
	},
}
