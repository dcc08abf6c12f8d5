package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cheerioskun/teesheet/internal/api"
	"github.com/cheerioskun/teesheet/internal/config"
	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/presets"
	"github.com/cheerioskun/teesheet/internal/schedule"
	"github.com/cheerioskun/teesheet/internal/utils"
)

var (
	cfgFile string
	verbose bool
	apiURL  string

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teesheet",
	Short: "Plan and bulk-create golf tee times",
	Long: `teesheet builds a day's tee sheet from time-slot rules and creates
the resulting tee times through the booking API.

A rule is written HH:MM-HH:MM/N: a tee time every N minutes from the
start time up to, but not including, the end time. Rules can be saved
as named presets and reused.

Examples:
  teesheet preview --preset weekday
  teesheet generate --from 2026-05-01 --to 2026-05-07 --slot 07:00-09:00/10
  teesheet tui`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the command tree
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default teesheet.yaml in . or "+config.DefaultDir()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "booking API base URL")

	// Bind flags to viper
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := utils.Init(cfg.Log.File, level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	utils.GetLogger().Debug("Loaded config: api=%s presets=%s", cfg.API.BaseURL, cfg.Presets.Backend)
	return nil
}

// buildStore opens the configured preset backend. The returned func
// releases it and is never nil.
func buildStore(ctx context.Context) (*presets.Store, func() error, error) {
	logger := utils.GetLogger().With("component", "presets")

	switch cfg.Presets.Backend {
	case config.BackendRedis:
		backend := presets.NewRedisBackend(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := backend.Ping(pingCtx); err != nil {
			backend.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return presets.NewStore(backend, logger), backend.Close, nil
	default:
		backend := presets.NewFileBackend(afero.NewOsFs(), cfg.Presets.Dir)
		return presets.NewStore(backend, logger), func() error { return nil }, nil
	}
}

func buildClient() *api.Client {
	client := api.NewClient(cfg.API.BaseURL, api.DefaultHTTPClient(cfg.API.Timeout), utils.GetLogger().With("component", "api"))
	debugf("Using booking API at %s\n", client.BaseURL())
	return client
}

func buildGenerator(creator schedule.TeeTimeCreator, onProgress func(schedule.Progress)) (*schedule.Generator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opts := []schedule.Option{
		schedule.WithConcurrency(cfg.Generate.Concurrency),
		schedule.WithRatePerSecond(cfg.Generate.RatePerSecond),
		schedule.WithLocation(loc),
		schedule.WithLogger(utils.GetLogger().With("component", "generator")),
	}
	if onProgress != nil {
		opts = append(opts, schedule.WithProgress(onProgress))
	}
	return schedule.NewGenerator(creator, opts...), nil
}

// resolveRules picks the rule list from exactly one of a preset key or
// --slot values
func resolveRules(ctx context.Context, store *presets.Store, presetKey string, slots []string) ([]models.TimeSlotRule, error) {
	presetKey = strings.TrimSpace(presetKey)
	switch {
	case presetKey != "" && len(slots) > 0:
		return nil, fmt.Errorf("use either --preset or --slot, not both")
	case presetKey != "":
		preset, err := store.Get(ctx, presetKey)
		if err != nil {
			return nil, err
		}
		return preset.CloneSlots(), nil
	case len(slots) > 0:
		return models.ParseTimeSlotRules(slots)
	default:
		return nil, fmt.Errorf("no rules given: pass --preset KEY or one or more --slot HH:MM-HH:MM/N")
	}
}

// parseDateFlags reads --from and --to. An empty --to means the same day as --from;
// an empty --from means today.
func parseDateFlags(from, to string, loc *time.Location) (civil.Date, civil.Date, error) {
	start := models.Today(loc)
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return civil.Date{}, civil.Date{}, fmt.Errorf("--from: %w", err)
		}
		start = d
	}
	end := start
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return civil.Date{}, civil.Date{}, fmt.Errorf("--to: %w", err)
		}
		end = d
	}
	return start, end, nil
}

func debugf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
