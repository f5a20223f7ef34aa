package main

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/fedi-cli/internal/app"
	"github.com/glabrego/fedi-cli/internal/config"
	"github.com/glabrego/fedi-cli/internal/logging"
	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
	"github.com/glabrego/fedi-cli/internal/storage"
	"github.com/glabrego/fedi-cli/internal/tui"
)

const cacheLimit = 200

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "fedi",
		Short:         "Read and act on your Mastodon home timeline from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, envFile)
			if err != nil {
				return err
			}
			return runTimeline(cfg, overridesFromFlags(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	cmd.PersistentFlags().String("instance", "", "instance URL (overrides FEDI_INSTANCE_URL)")
	cmd.PersistentFlags().String("db", "", "sqlite cache path (overrides FEDI_DB_PATH)")
	cmd.PersistentFlags().String("log", "", "log file path (overrides FEDI_LOG_PATH)")
	cmd.Flags().String("display-media", "", "default, show_all or hide_all (overrides FEDI_DISPLAY_MEDIA)")
	cmd.Flags().Bool("expand-spoilers", false, "expand content warnings by default")
	cmd.Flags().Bool("hide-media", false, "hide all media until revealed")
	cmd.Flags().String("muted", "", "comma separated accounts whose statuses ignore commands")

	cmd.AddCommand(newWhoamiCmd(&envFile))
	return cmd
}

func newWhoamiCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the access token and print the authenticated account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *envFile)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			account, err := mastodon.NewClient(cfg.InstanceURL, cfg.AccessToken, nil).VerifyCredentials(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "@%s (%s) on %s\n", account.Acct, account.DisplayName, cfg.InstanceURL)
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command, envFile string) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	cfg, err := config.Load(overridesFromFlags(cmd))
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}
	o.InstanceURL = str("instance")
	o.DBPath = str("db")
	o.LogPath = str("log")
	if flags.Lookup("display-media") != nil {
		o.DisplayMedia = str("display-media")
		o.ExpandSpoilers = boolean("expand-spoilers")
		o.HideMedia = boolean("hide-media")
		o.MutedAccounts = str("muted")
	}
	return o
}

func runTimeline(cfg config.Config, flags config.Overrides) error {
	logger, logCloser, err := logging.Open(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("log init error: %w", err)
	}
	defer logCloser.Close()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		return fmt.Errorf("storage write check failed (%v). Verify FEDI_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := mastodon.NewClient(cfg.InstanceURL, cfg.AccessToken, nil)
	service := app.NewService(client, repo, logger)

	cacheLoadStart := time.Now()
	statuses, err := service.ListCached(ctx, cacheLimit)
	if err != nil {
		return fmt.Errorf("cannot load cached statuses: %w", err)
	}
	cacheLoadDuration := time.Since(cacheLoadStart)
	logger.Info(ctx, "cache loaded", "statuses", len(statuses), "duration", cacheLoadDuration)

	prefs, err := service.LoadUIPreferences(ctx, app.UIPreferences{
		DisplayMedia:   cfg.DisplayMedia,
		ExpandSpoilers: cfg.ExpandSpoilers,
	})
	if err != nil {
		logger.Warn(ctx, "could not load UI preferences, using configured defaults", "error", err)
		prefs = app.UIPreferences{DisplayMedia: cfg.DisplayMedia, ExpandSpoilers: cfg.ExpandSpoilers}
	}
	// Explicit flags beat stored preferences for this session.
	if flags.DisplayMedia != nil {
		prefs.DisplayMedia = cfg.DisplayMedia
	}
	if flags.ExpandSpoilers != nil {
		prefs.ExpandSpoilers = cfg.ExpandSpoilers
	}

	model := tui.NewModel(service, statuses, tui.Options{
		Instance: cfg.InstanceURL,
		Status: status.Options{
			DisplayMedia:       prefs.DisplayMedia,
			ExpandSpoilers:     prefs.ExpandSpoilers,
			HideMediaByDefault: cfg.HideMedia,
		},
		IsMuted:    cfg.IsMuted,
		MutedCount: len(cfg.MutedAccounts),
	})
	model.SetStartupCacheStats(cacheLoadDuration, len(statuses))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error(context.Background(), "tui exited with error", "error", err)
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
