package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odoogo/odoogo/internal/doctest"
	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

// newDoctestCmd runs the testable example blocks in markdown files.
func newDoctestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctest FILE [FILE...]",
		Short: "Run testable example blocks from markdown files",
		Long: `Run the fenced code blocks annotated as testable in the given
markdown files. Blocks tagged js execute against the configured server;
records created by blocks with a creates attribute are deleted afterwards.

Example:
  odoogo doctest docs/examples.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDoctest,
	}

	cmd.Flags().Bool("list", false, "List the blocks without running them")
	return cmd
}

func runDoctest(cmd *cobra.Command, args []string) error {
	var blocks []doctest.Block
	for _, file := range args {
		parsed, perr := doctest.ParseFile(file)
		if perr != nil {
			return perr
		}
		blocks = append(blocks, parsed...)
	}

	if listOnly, _ := cmd.Flags().GetBool("list"); listOnly {
		if jsonOutput {
			printJSON(blocks)
			return nil
		}
		for _, b := range blocks {
			fmt.Printf("%-30s %s:%d\n", b.ID, b.File, b.Line)
		}
		return nil
	}

	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	runner := doctest.NewRunner(doctest.Deps{
		Client:    client,
		Inspector: introspect.NewInspector(client),
	})
	report := runner.Run(cmd.Context(), blocks)

	if jsonOutput {
		out := make([]map[string]any, 0, len(report.Results))
		for _, res := range report.Results {
			entry := map[string]any{
				"id":     res.Block.ID,
				"passed": res.Passed,
			}
			if res.Err != nil {
				entry["error"] = res.Err.Error()
			}
			out = append(out, entry)
		}
		printJSON(map[string]any{"run_id": report.RunID, "results": out})
	} else {
		for _, res := range report.Results {
			if res.Passed {
				okLabel.Fprintf(os.Stdout, "[OK] ")
				fmt.Printf("%s\n", res.Block.ID)
			} else {
				errorLabel.Fprintf(os.Stdout, "[FAIL] ")
				fmt.Printf("%s: %v\n", res.Block.ID, res.Err)
			}
		}
	}

	if !report.Passed() {
		return fmt.Errorf("%d of %d blocks failed", report.Failed(), len(report.Results))
	}
	return nil
}
