package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// sessionFile is the name of the JSON session state next to the config.
const sessionFile = "session.json"

// SessionState is the last successful login, kept so commands can report
// which server and identity they operate as without re-authenticating
// interactively.
type SessionState struct {
	UID      int64
	Database string
	Username string
	URL      string
	LoginAt  string
}

func sessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "odoogo", sessionFile), nil
}

// SaveSession patches the session state file with the new login. Existing
// unknown keys in the file are preserved.
func SaveSession(state SessionState) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("unable to create session directory: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("unable to read session file: %w", err)
		}
		raw = []byte("{}")
	}

	doc := string(raw)
	for key, value := range map[string]any{
		"uid":      state.UID,
		"database": state.Database,
		"username": state.Username,
		"url":      state.URL,
		"login_at": time.Now().UTC().Format(time.RFC3339),
	} {
		doc, err = sjson.Set(doc, key, value)
		if err != nil {
			return fmt.Errorf("unable to update session state: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	return nil
}

// LoadSession reads the stored session state. A missing file returns a zero
// state, not an error.
func LoadSession() (SessionState, error) {
	path, err := sessionPath()
	if err != nil {
		return SessionState{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SessionState{}, nil
		}
		return SessionState{}, fmt.Errorf("unable to read session file: %w", err)
	}

	doc := string(raw)
	return SessionState{
		UID:      gjson.Get(doc, "uid").Int(),
		Database: gjson.Get(doc, "database").String(),
		Username: gjson.Get(doc, "username").String(),
		URL:      gjson.Get(doc, "url").String(),
		LoginAt:  gjson.Get(doc, "login_at").String(),
	}, nil
}

// ClearSession removes the stored session state.
func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
