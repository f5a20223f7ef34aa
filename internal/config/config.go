package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/glabrego/fedi-cli/internal/status"
)

const defaultDBPath = "fedi.db"

// Config holds runtime settings for the CLI app.
type Config struct {
	InstanceURL    string
	AccessToken    string
	DBPath         string
	LogPath        string
	DisplayMedia   status.DisplayMedia
	ExpandSpoilers bool
	HideMedia      bool
	MutedAccounts  []string
}

// LoadDotEnv loads variables from the given files (".env" when none are
// named). Variables already set in the environment win. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Overrides are command-line values that take precedence over the
// environment. Nil fields are left alone.
type Overrides struct {
	InstanceURL    *string
	DBPath         *string
	LogPath        *string
	DisplayMedia   *string
	ExpandSpoilers *bool
	HideMedia      *bool
	MutedAccounts  *string
}

func LoadFromEnv() (Config, error) {
	return Load(Overrides{})
}

// Load reads the environment, applies o on top and validates the result.
func Load(o Overrides) (Config, error) {
	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.apply(o); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(o Overrides) error {
	if o.InstanceURL != nil {
		c.InstanceURL = strings.TrimSpace(*o.InstanceURL)
	}
	if o.DBPath != nil {
		c.DBPath = *o.DBPath
	}
	if o.LogPath != nil {
		c.LogPath = *o.LogPath
	}
	if o.DisplayMedia != nil {
		dm, err := status.ParseDisplayMedia(strings.TrimSpace(*o.DisplayMedia))
		if err != nil {
			return fmt.Errorf("--display-media: %w", err)
		}
		c.DisplayMedia = dm
	}
	if o.ExpandSpoilers != nil {
		c.ExpandSpoilers = *o.ExpandSpoilers
	}
	if o.HideMedia != nil {
		c.HideMedia = *o.HideMedia
	}
	if o.MutedAccounts != nil {
		c.MutedAccounts = ParseAccountList(*o.MutedAccounts)
	}
	return nil
}

func fromEnv() (Config, error) {
	cfg := Config{
		InstanceURL: strings.TrimSpace(os.Getenv("FEDI_INSTANCE_URL")),
		AccessToken: strings.TrimSpace(os.Getenv("FEDI_ACCESS_TOKEN")),
		DBPath:      os.Getenv("FEDI_DB_PATH"),
		LogPath:     os.Getenv("FEDI_LOG_PATH"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	displayMedia, err := status.ParseDisplayMedia(strings.TrimSpace(os.Getenv("FEDI_DISPLAY_MEDIA")))
	if err != nil {
		return Config{}, fmt.Errorf("FEDI_DISPLAY_MEDIA: %w", err)
	}
	cfg.DisplayMedia = displayMedia

	if cfg.ExpandSpoilers, err = envBool("FEDI_EXPAND_SPOILERS"); err != nil {
		return Config{}, err
	}
	if cfg.HideMedia, err = envBool("FEDI_HIDE_MEDIA"); err != nil {
		return Config{}, err
	}
	cfg.MutedAccounts = ParseAccountList(os.Getenv("FEDI_MUTED_ACCOUNTS"))
	return cfg, nil
}

func (c Config) Validate() error {
	if c.InstanceURL == "" {
		return errors.New("FEDI_INSTANCE_URL is required")
	}
	if c.AccessToken == "" {
		return errors.New("FEDI_ACCESS_TOKEN is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if !strings.HasPrefix(c.InstanceURL, "https://") && !strings.HasPrefix(c.InstanceURL, "http://") {
		return fmt.Errorf("InstanceURL must be an http(s) URL: %s", c.InstanceURL)
	}
	if strings.HasSuffix(c.InstanceURL, "/") {
		return fmt.Errorf("InstanceURL must not end with '/': %s", c.InstanceURL)
	}
	if _, err := status.ParseDisplayMedia(string(c.DisplayMedia)); err != nil {
		return err
	}
	return nil
}

// IsMuted reports whether acct is in the muted list. Comparison ignores case
// and a leading '@'.
func (c Config) IsMuted(acct string) bool {
	acct = normalizeAcct(acct)
	for _, muted := range c.MutedAccounts {
		if muted == acct {
			return true
		}
	}
	return false
}

// ParseAccountList splits a comma separated list of accts, dropping blanks
// and duplicates.
func ParseAccountList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		acct := normalizeAcct(part)
		if acct == "" {
			continue
		}
		if _, ok := seen[acct]; ok {
			continue
		}
		seen[acct] = struct{}{}
		out = append(out, acct)
	}
	return out
}

func normalizeAcct(acct string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(acct), "@"))
}

func envBool(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %s", key, raw)
	}
	return v, nil
}
