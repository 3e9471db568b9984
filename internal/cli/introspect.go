package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

// newModelsCmd lists the models registered on the server.
func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models registered on the server",
		Long: `List the models in the server's registry. Transient models
(wizards) are excluded by default.

Examples:
  odoogo models
  odoogo models --module sale
  odoogo models --transient`,
		RunE: runModels,
	}

	cmd.Flags().Bool("transient", false, "Include transient (wizard) models")
	cmd.Flags().String("module", "", "Only models provided by the given module(s), comma separated")
	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	includeTransient, _ := cmd.Flags().GetBool("transient")
	moduleFlag, _ := cmd.Flags().GetString("module")
	var modules []string
	for _, m := range strings.Split(moduleFlag, ",") {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}

	inspector := introspect.NewInspector(client)
	models, ierr := inspector.Models(cmd.Context(), introspect.ModelsOptions{
		IncludeTransient: includeTransient,
		Modules:          modules,
	})
	if ierr != nil {
		return ierr
	}

	if jsonOutput {
		printJSON(models)
		return nil
	}
	for _, m := range models {
		marker := " "
		if m.Transient {
			marker = "T"
		}
		fmt.Printf("%s %-40s %s\n", marker, m.Model, m.Name)
	}
	return nil
}

// newFieldsCmd lists the fields of one model.
func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields MODEL",
		Short: "List the fields of a model",
		Long: `List the field definitions of one model, as reported by the
server's fields_get introspection.

Example:
  odoogo fields res.partner`,
		Args: cobra.ExactArgs(1),
		RunE: runFields,
	}
}

func runFields(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	inspector := introspect.NewInspector(client)
	fields, ierr := inspector.Fields(cmd.Context(), args[0], introspect.FieldsOptions{})
	if ierr != nil {
		return ierr
	}
	if len(fields) == 0 {
		return fmt.Errorf("model %s has no fields or does not exist", args[0])
	}

	if jsonOutput {
		printJSON(fields)
		return nil
	}
	for _, f := range fields {
		flags := ""
		if f.Required {
			flags += " required"
		}
		if f.Readonly {
			flags += " readonly"
		}
		rel := ""
		if f.Relation != "" {
			rel = " -> " + f.Relation
		}
		fmt.Printf("%-30s %-12s%s%s\n", f.Name, f.Type, rel, flags)
	}
	return nil
}
