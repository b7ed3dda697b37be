package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsg-lang/tsg/internal/driver"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded compile/run sessions",
	Long: `Lists the most recent runs recorded in the SQLite compile-history
database (see the tsg.toml "history" setting).`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
}

func runHistory(*cobra.Command, []string) error {
	cfg, err := driver.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}
	path := cfg.History
	if historyDB != "" {
		path = historyDB
	}
	if path == "" {
		return fmt.Errorf("no history database configured (set tsg.toml's history or --history)")
	}

	h, err := driver.OpenHistory(path)
	if err != nil {
		return err
	}
	defer h.Close()

	runs, err := h.Recent(historyLimit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		result := "n/a"
		if r.Result != nil {
			result = fmt.Sprintf("%d", *r.Result)
		}
		fmt.Printf("%s  %s  diags=%d  result=%s  %dms\n", r.RanAt, r.SessionID, r.DiagCount, result, r.DurationMS)
	}
	return nil
}
