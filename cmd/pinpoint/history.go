package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/pinpoint/internal/cli"
	"github.com/Veraticus/pinpoint/internal/service"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent verifications",
		Long:  `List the newest verifications recorded in the history database.`,
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "number of records to show")
	cmd.Flags().String("batch", "", "only show records from this batch ID")
	cmd.Flags().Bool("json", false, "print records as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	batchID, _ := cmd.Flags().GetString("batch")
	asJSON, _ := cmd.Flags().GetBool("json")

	driver := viper.GetString("storage.driver")
	if driver == "none" {
		return fmt.Errorf("history is disabled (storage.driver is none)")
	}

	store, err := openStorage(ctx, driver)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	records, err := store.ListRecords(ctx, service.RecordFilter{BatchID: batchID, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if records == nil {
			records = []service.StoredRecord{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	fmt.Fprintln(out, cli.RenderHistory(records))
	return nil
}
