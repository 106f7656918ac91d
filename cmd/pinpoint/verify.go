package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pinpoint/internal/cli"
	"github.com/Veraticus/pinpoint/internal/model"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [address]",
		Short: "Verify a single address",
		Long: `Verify one free-text address and print the structured record.

The address may be given as one quoted argument or as several words.`,
		Example: `  pinpoint verify "Flat 12, Shanti Apts, FC Road, Shivajinagar, Pune 411005"
  pinpoint verify --name "ravi kumar" --json "Plot 4 Madhapur Hyderabad 500081"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().String("name", "", "customer name to clean")
	cmd.Flags().Bool("json", false, "print the record as JSON")
	cmd.Flags().Bool("no-save", false, "do not record the result in history")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, _ := cmd.Flags().GetString("name")
	asJSON, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")

	input := model.RawInput{Address: strings.Join(args, " "), CustomerName: name}
	if err := input.Validate(); err != nil {
		return err
	}

	a, err := newApp(ctx, appOptions{withStorage: !noSave})
	if err != nil {
		return err
	}
	defer a.Close()

	rec, verifyErr := a.verifier.Verify(ctx, input)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	} else {
		fmt.Fprintln(out, cli.RenderRecord(rec))
	}

	if verifyErr != nil {
		return fmt.Errorf("verification failed: %w", verifyErr)
	}
	return nil
}
