package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/ui"
)

var (
	tuiPreset string
	tuiFrom   string
	tuiTo     string
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive tee sheet console",
	Long: `Start the interactive Terminal User Interface for building tee sheets.

The console provides:
- Rule editor with inline validation (HH:MM-HH:MM/N)
- Preset picker to load, save and delete presets
- Live preview of tee times per rule, per day and per date range
- Overlap warnings
- Bulk generation with a result summary

Examples:
  teesheet tui
  teesheet tui --preset weekend --from 2026-05-02 --to 2026-05-03`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// TUI-specific flags
	tuiCmd.Flags().StringVarP(&tuiPreset, "preset", "p", "", "preset to load at start")
	tuiCmd.Flags().StringVar(&tuiFrom, "from", "", "first date (YYYY-MM-DD, default today)")
	tuiCmd.Flags().StringVar(&tuiTo, "to", "", "last date, inclusive (YYYY-MM-DD, default --from)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	start, end, err := parseDateFlags(tuiFrom, tuiTo, loc)
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	draft := models.NewDraft(start, cfg.Generate.CourseSection, cfg.Generate.Capacity)
	draft.SetDates(start, end)
	if tuiPreset != "" {
		preset, err := store.Get(cmd.Context(), tuiPreset)
		if err != nil {
			return err
		}
		draft.LoadPreset(preset)
	}

	generator, err := buildGenerator(buildClient(), nil)
	if err != nil {
		return err
	}

	// Initialize TUI
	model := ui.NewAppModel(draft, store, generator, loc)

	// Start the TUI program
	program := tea.NewProgram(model, tea.WithAltScreen())

	debugf("Starting TUI (logs in %s)...\n", cfg.Log.File)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
