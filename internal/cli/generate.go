package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odoogo/odoogo/pkg/odoo/codegen"
	"github.com/odoogo/odoogo/pkg/odoo/introspect"
)

// newGenerateCmd generates Go declarations for server models.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate MODEL [MODEL...]",
		Short: "Generate Go struct declarations for models",
		Long: `Generate Go struct declarations from the server's model metadata.
Output goes to stdout unless --out names a directory, in which case one
file per model is written.

Examples:
  odoogo generate res.partner
  odoogo generate res.partner sale.order --package models --out ./models`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().String("package", "models", "Package name for the generated file")
	cmd.Flags().String("out", "", "Directory to write generated files into")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}

	pkg, _ := cmd.Flags().GetString("package")
	outDir, _ := cmd.Flags().GetString("out")

	inspector := introspect.NewInspector(client)
	metadata := make([]introspect.Metadata, 0, len(args))
	for _, model := range args {
		md, merr := inspector.ModelMetadata(cmd.Context(), model)
		if merr != nil {
			return fmt.Errorf("cannot introspect %s: %w", model, merr)
		}
		metadata = append(metadata, *md)
	}

	if outDir == "" {
		os.Stdout.Write(codegen.GenerateFile(pkg, metadata))
		return nil
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create %s: %w", outDir, err)
	}
	for _, md := range metadata {
		name := strings.ReplaceAll(md.Model.Model, ".", "_") + ".go"
		path := filepath.Join(outDir, name)
		content := codegen.GenerateFile(pkg, []introspect.Metadata{md})
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		if !jsonOutput {
			okLabel.Fprintf(os.Stdout, "[OK] ")
			fmt.Printf("Generated: %s\n", path)
		}
	}
	return nil
}
