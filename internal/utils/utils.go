package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ochronus/gopastebin/pastebin"
)

const configTemplate = `# Required. Developer key of your application, from https://pastebin.com/doc_api
dev_key = "{{DEV_KEY}}"

# User key obtained with 'gopastebin login'. It stays valid until you log in again.
user_key = "{{USER_KEY}}"

# Optional. When user_key is empty, these are used to obtain one on every run.
username = "{{USERNAME}}"
password = ""

# Optional log level, default "info"
loglevel = "info"

# Optional request timeout in secs, default 0 (no timeout)
timeout = 0

# Optional. Point the client at another host serving the same API, such as 'gopastebin sandbox'.
# base_url = "http://127.0.0.1:8089"

[defaults]
# Visibility of new pastes: 0 public, 1 unlisted, 2 private. Default 2.
visibility = 2
# Expiration: N, 10M, 1H, 1D, 1W, 2W, 1M, 6M, 1Y. Default "N" (never).
expire_date = "N"
# Syntax highlighting format, default "text"
format = "text"
# Number of pastes listed, between 1 and 1000. Default 50.
results_limit = 50

[sandbox]
# Optional bind address, default "127.0.0.1"
bind_address = "127.0.0.1"
# Optional TCP port, default 8089
port = 8089
# Maximum number of pastes kept in memory, default 1000
capacity = 1000
# Dev keys the sandbox accepts. Empty accepts any non-empty key.
dev_keys = []
`

// GetUserKey logs in and prints the user key.
func GetUserKey(out io.Writer, client pastebin.ClientAPI, devKey, username, password string) (string, error) {
	userKey, err := client.ObtainUserKey(devKey, username, password)
	if err != nil {
		return "", fmt.Errorf("failed to obtain user key: %w", err)
	}

	fmt.Fprintf(out, "Pastebin user key: %s\n", userKey)
	return userKey, nil
}

// RenderConfig fills the config template.
func RenderConfig(devKey, userKey, username string) string {
	replacer := strings.NewReplacer(
		"{{DEV_KEY}}", tomlEscape(devKey),
		"{{USER_KEY}}", tomlEscape(userKey),
		"{{USERNAME}}", tomlEscape(username),
	)
	return replacer.Replace(configTemplate)
}

func tomlEscape(s string) string {
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}

// GenerateConfig logs in and writes a configuration file holding the keys
func GenerateConfig(out io.Writer, configPath string, client pastebin.ClientAPI, devKey, username, password string) error {
	fmt.Fprintf(out, "Generating config %s\n", configPath)

	userKey, err := GetUserKey(out, client, devKey, username, password)
	if err != nil {
		return err
	}

	config := RenderConfig(devKey, userKey, username)

	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Fprintf(out, "Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file holds credentials
	fmt.Fprintf(out, "Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(config), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
