package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "odoogo [command] [flags]",
	Short: "odoogo - a command line client for Odoo servers",
	Long: `odoogo talks to an Odoo server over its JSON-RPC interface.
It covers the day-to-day operations: searching and editing records,
inspecting the model registry, generating Go bindings, and running the
testable examples embedded in markdown documentation.

Examples:
  # Log in and store the session
  odoogo login

  # List models and inspect one
  odoogo models
  odoogo fields res.partner

  # Search and create records
  odoogo search res.partner -d '[["is_company","=",true]]' -l 5
  odoogo create res.partner -f partner.yaml

  # Generate Go struct declarations
  odoogo generate res.partner sale.order`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newFieldsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newDoctestCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			kv := map[string]string{
				"error": err.Error(),
			}
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents handles persistent flags and configuration loading before command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if requiresConfig(cmd) {
		if err := LoadConfig(configFile); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("odoogo config file not found. Create one or set the ODOO_* environment variables.")
				if lerr := LoadConfigFromEnv(); lerr != nil {
					errorLabel.Fprintf(os.Stderr, "Error: %v\n", lerr)
					os.Exit(1)
				}
			} else {
				fmt.Printf("%s\n", err.Error())
				os.Exit(1)
			}
		}
	}
}

// requiresConfig reports whether a command needs server configuration.
// version never talks to a server; doctest --list only parses files.
func requiresConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version":
			return false
		case "doctest":
			listOnly, _ := c.Flags().GetBool("list")
			return !listOnly
		}
	}
	return true
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the odoogo version",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{"version": Version})
			} else {
				fmt.Printf("odoogo version %s\n", Version)
			}
		},
	}
}

// Version is injected at build time.
var Version = "dev"

// printJSON prints the given value as indented JSON to stdout
func printJSON(data interface{}) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
