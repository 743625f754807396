package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"abchub/internal/service"
)

func newBackupCmd(a *app) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import, inspect or clear the record store",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every collection to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			if err := service.NewBackupService(a.store, a.logger).Export(output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s (%.2f MB)\n", output, float64(info.Size())/1024/1024)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	var (
		input    string
		wipe     bool
		assumeOK bool
	)
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import collections from a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file: %w", err)
			}
			if wipe && !assumeOK && !confirm(cmd, "WARNING: This will delete all existing data.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}

			if err := service.NewBackupService(a.store, a.logger).Import(input, wipe); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Import complete!")
			return nil
		},
	}
	importCmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	importCmd.Flags().BoolVar(&wipe, "clear", false, "clear existing data before import (destructive)")
	importCmd.Flags().BoolVarP(&assumeOK, "yes", "y", false, "do not ask for confirmation")
	_ = importCmd.MarkFlagRequired("input")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the serialized size of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := service.NewBackupService(a.store, a.logger).Stats()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COLLECTION\tBYTES")
			fmt.Fprintf(tw, "profile\t%d\n", stats.Profile)
			fmt.Fprintf(tw, "scores\t%d\n", stats.Scores)
			fmt.Fprintf(tw, "stories\t%d\n", stats.Stories)
			fmt.Fprintf(tw, "sessions\t%d\n", stats.Sessions)
			fmt.Fprintf(tw, "friends\t%d\n", stats.Friends)
			fmt.Fprintf(tw, "achievements\t%d\n", stats.Achievements)
			fmt.Fprintf(tw, "total\t%d (%s MB)\n", stats.Total, stats.TotalMB)
			return tw.Flush()
		},
	}

	var clearOK bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearOK && !confirm(cmd, "WARNING: This will delete all existing data.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled")
				return nil
			}
			if err := service.NewBackupService(a.store, a.logger).Clear(); err != nil {
				return fmt.Errorf("clear failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&clearOK, "yes", "y", false, "do not ask for confirmation")

	backupCmd.AddCommand(exportCmd, importCmd, statsCmd, clearCmd)
	return backupCmd
}

// confirm asks the user to type yes
func confirm(cmd *cobra.Command, warning string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s Type 'yes' to confirm: ", warning)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}
