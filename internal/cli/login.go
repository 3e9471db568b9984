package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odoogo/odoogo/pkg/odoo"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Odoo server",
		Long: `Login verifies the configured credentials against the server and
stores the resulting session identity locally. Other commands authenticate
on their own; login exists to validate a fresh configuration and to record
which server and user the CLI operates as.

Example:
  odoogo login
  odoogo login --passwd=mypassword`,
		RunE: runLogin,
	}

	cmd.Flags().String("passwd", "", "Password for authentication (overrides config)")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	passwd, _ := cmd.Flags().GetString("passwd")
	if passwd == "" {
		passwd = cfg.Password
		if passwd == "" {
			return fmt.Errorf("no password provided. Use --passwd flag or set password in config file")
		}
	}

	transport, err := odoo.NewTransport(cfg.URL, cfg.Database)
	if err != nil {
		return err
	}
	client := odoo.NewClient(transport)

	session, err := client.Authenticate(cmd.Context(), cfg.Username, passwd)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if serr := SaveSession(SessionState{
		UID:      session.UID,
		Database: session.Database,
		Username: cfg.Username,
		URL:      cfg.URL,
	}); serr != nil {
		return serr
	}

	if jsonOutput {
		printJSON(map[string]any{
			"uid":      session.UID,
			"database": session.Database,
			"username": cfg.Username,
		})
	} else {
		okLabel.Fprintf(os.Stdout, "[OK] ")
		fmt.Printf("Logged in to %s as %s (uid %d)\n", session.Database, cfg.Username, session.UID)
	}
	return nil
}
