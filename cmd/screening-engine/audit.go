// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/audit"
	"github.com/pdiddy/screening-engine/internal/screen"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect a snapshot's screening audit log",
}

var auditListCmd = &cobra.Command{
	Use:   "list [snapshot-id]",
	Short: "List the audit entries of a snapshot",
	Long: `List replays the audit log of a snapshot: every successful screening
call with its query, thresholds, hits and decision, in call order.
Without an argument the latest snapshot is used.`,
	RunE: runAuditList,
}

func runAuditList(cmd *cobra.Command, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Resolve(cmd.Context(), id)
	if err != nil {
		return err
	}

	entries, err := audit.Read(store.AuditPath(snap.ID))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No audit entries for snapshot %s.\n", snap.ID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-22s  %-40s  %-8s  %s\n", "Timestamp", "Query", "Decision", "Hits")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 84))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-22s  %-40s  %-8s  %d\n",
			e.Timestamp.UTC().Format("2006-01-02 15:04:05"), screen.Truncate(e.Query, 40), e.Decision, len(e.Hits))
	}
	fmt.Fprintf(os.Stdout, "\n%d entries for snapshot %s\n", len(entries), snap.ID)
	return nil
}

func init() {
	auditListCmd.Flags().Bool("json", false, "output entries as JSON")

	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(auditCmd)
}
