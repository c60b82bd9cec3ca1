// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect stored watchlist snapshots",
	Long: `Snapshot lists the snapshots in the data directory or shows the full
manifest of one snapshot: which sources were ingested, when, and with
what content hashes.`,
}

// --- list subcommand ---

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE:  runSnapshotList,
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots. Run: screening-engine update")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-22s  %-8s  %s\n", "Snapshot", "Created", "Sources", "Records")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 76))
	for _, s := range snaps {
		fmt.Fprintf(os.Stdout, "%-30s  %-22s  %-8d  %d\n",
			s.ID, s.CreatedAt.UTC().Format("2006-01-02 15:04:05"), len(s.Manifest), s.RecordCount)
	}
	return nil
}

// --- show subcommand ---

var snapshotShowCmd = &cobra.Command{
	Use:   "show [snapshot-id]",
	Short: "Show a snapshot's manifest",
	Long: `Show prints the manifest of a snapshot: per source, the download URL,
retrieval time, content SHA-256 and record count. Without an argument
the latest snapshot is shown.`,
	RunE: runSnapshotShow,
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
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

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Printf("Snapshot: %s\n", snap.ID)
	fmt.Printf("Created:  %s\n", snap.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("Records:  %d\n\n", snap.RecordCount)

	sources := make([]string, 0, len(snap.Manifest))
	for id := range snap.Manifest {
		sources = append(sources, id)
	}
	sort.Strings(sources)

	for _, src := range sources {
		e := snap.Manifest[src]
		fmt.Printf("%s\n", src)
		fmt.Printf("  url:          %s\n", e.DownloadURL)
		fmt.Printf("  retrieved_at: %s\n", e.RetrievedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
		fmt.Printf("  sha256:       %s\n", e.SHA256)
		fmt.Printf("  records:      %d\n", e.RecordCount)
	}
	return nil
}

func init() {
	snapshotShowCmd.Flags().Bool("json", false, "output the manifest as JSON")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)

	rootCmd.AddCommand(snapshotCmd)
}
