package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/odoogo/odoogo/pkg/odoo"
)

// newSearchCmd searches records of a model.
func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search MODEL",
		Short: "Search and read records of a model",
		Long: `Search records matching a domain and print the requested fields.
The domain is given in the server's own JSON list syntax.

Examples:
  odoogo search res.partner
  odoogo search res.partner -d '[["is_company","=",true]]' -l 10
  odoogo search sale.order --fields name,amount_total --order "date_order desc"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringP("domain", "d", "[]", "Search domain as a JSON list")
	cmd.Flags().String("fields", "", "Comma separated field names to read")
	cmd.Flags().IntP("limit", "l", 0, "Maximum number of records")
	cmd.Flags().Int("offset", 0, "Number of records to skip")
	cmd.Flags().String("order", "", "Sort specification, e.g. \"name asc\"")
	cmd.Flags().Bool("count", false, "Print only the number of matching records")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	domainJSON, _ := cmd.Flags().GetString("domain")
	var domain odoo.Domain
	if uerr := json.Unmarshal([]byte(domainJSON), &domain); uerr != nil {
		return fmt.Errorf("invalid domain %q: %w", domainJSON, uerr)
	}

	if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
		count, cerr := client.SearchCount(cmd.Context(), args[0], domain)
		if cerr != nil {
			return cerr
		}
		if jsonOutput {
			printJSON(map[string]int64{"count": count})
		} else {
			fmt.Println(count)
		}
		return nil
	}

	fieldsFlag, _ := cmd.Flags().GetString("fields")
	var fields []string
	if fieldsFlag != "" {
		for _, f := range strings.Split(fieldsFlag, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	order, _ := cmd.Flags().GetString("order")

	records, serr := client.SearchRead(cmd.Context(), args[0], domain, fields, &odoo.SearchOptions{
		Limit:  limit,
		Offset: offset,
		Order:  order,
	})
	if serr != nil {
		return serr
	}

	printJSON(records)
	return nil
}

// newGetCmd reads one record by id.
func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get MODEL ID",
		Short: "Read one record by id",
		Long: `Read a single record and print it as JSON.

Example:
  odoogo get res.partner 42 --fields name,email`,
		Args: cobra.ExactArgs(2),
		RunE: runGet,
	}
	cmd.Flags().String("fields", "", "Comma separated field names to read")
	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	id, perr := strconv.ParseInt(args[1], 10, 64)
	if perr != nil {
		return fmt.Errorf("invalid record id %q", args[1])
	}

	fieldsFlag, _ := cmd.Flags().GetString("fields")
	var fields []string
	if fieldsFlag != "" {
		fields = strings.Split(fieldsFlag, ",")
	}

	record, rerr := client.ReadOne(cmd.Context(), args[0], id, fields)
	if rerr != nil {
		return rerr
	}
	printJSON(record)
	return nil
}

// newCreateCmd creates a record from a YAML or JSON file.
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create MODEL -f FILENAME",
		Short: "Create a record from a file",
		Long: `Create a record with values from a YAML or JSON file. The file
holds one flat mapping of field names to values.

Examples:
  odoogo create res.partner -f partner.yaml
  odoogo create res.partner -f partner.json`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
	cmd.Flags().StringP("filename", "f", "", "File containing the field values")
	cmd.MarkFlagRequired("filename")
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("filename")

	raw, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", filename, err)
	}
	// YAMLToJSON also accepts plain JSON input
	jsonBytes, err := sigsyaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("unable to parse %s: %w", filename, err)
	}
	var values odoo.Record
	if err := json.Unmarshal(jsonBytes, &values); err != nil {
		return fmt.Errorf("%s must contain a mapping of field values: %w", filename, err)
	}

	client, cerr := connect(cmd.Context())
	if cerr != nil {
		return cerr
	}

	id, aerr := client.Create(cmd.Context(), args[0], values, nil)
	if aerr != nil {
		return aerr
	}

	if jsonOutput {
		printJSON(map[string]int64{"id": id})
	} else {
		okLabel.Fprintf(os.Stdout, "[OK] ")
		fmt.Printf("Created: %s id %d\n", args[0], id)
	}
	return nil
}

// newDeleteCmd deletes records by id.
func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete MODEL ID [ID...]",
		Short: "Delete records by id",
		Long: `Delete one or more records. With confirm_writes enabled in the
configuration, the operation prompts before anything is sent.

Example:
  odoogo delete res.partner 42 43`,
		Args: cobra.MinimumNArgs(2),
		RunE: runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, perr := strconv.ParseInt(arg, 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}

	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	if _, derr := client.Unlink(cmd.Context(), args[0], ids); derr != nil {
		return derr
	}

	if jsonOutput {
		printJSON(map[string]any{"deleted": ids})
	} else {
		okLabel.Fprintf(os.Stdout, "[OK] ")
		fmt.Printf("Deleted %d record(s) from %s\n", len(ids), args[0])
	}
	return nil
}
