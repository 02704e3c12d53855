package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/petems/clipslot/internal/config"
	"github.com/petems/clipslot/internal/storage"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show capture, paste and clear counts from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		journal, err := storage.Open(cfg.JournalPath())
		if err != nil {
			return err
		}
		defer journal.Close()

		stats, err := journal.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ACTION\tTOTAL\tFAILED\tCHARS")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Action, s.Total, s.Failures, s.Chars)
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			fmt.Println(cfgFile)
			return
		}
		fmt.Println(config.Path())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration (defaults plus overrides) to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfgFile != "" {
			if err := cfg.SaveTo(cfgFile); err != nil {
				return err
			}
			fmt.Println("Wrote", cfgFile)
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("Wrote", config.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
