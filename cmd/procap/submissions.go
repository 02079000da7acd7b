package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teamdocs/procap/internal/archive"
	"github.com/teamdocs/procap/internal/config"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List recently archived submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		arch, err := archive.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening submission archive: %w", err)
		}
		defer arch.Close()

		subs, err := arch.ListRecent(limit)
		if err != nil {
			return fmt.Errorf("listing submissions: %w", err)
		}
		if len(subs) == 0 {
			printStatus("Submissions", "none")
			return nil
		}

		for _, s := range subs {
			marker := ""
			if s.IsDraft {
				marker = " [draft]"
			}
			fmt.Printf("%s  %-25s %-30s %s%s\n",
				s.SubmittedAt.Format("2006-01-02 15:04"),
				s.Division, s.ProcessName, s.Filename, marker)
		}
		return nil
	},
}

func init() {
	submissionsCmd.Flags().Int("limit", 20, "maximum number of submissions to show")
}
