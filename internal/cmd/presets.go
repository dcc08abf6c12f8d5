package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
)

var saveSlots []string

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage schedule presets",
	Long: `List, show, save and delete schedule presets.

The built-in presets weekday, weekend and tournament are always
available and cannot be overwritten or deleted.

Examples:
  teesheet presets list
  teesheet presets show weekday
  teesheet presets save "Twilight" --slot 17:00-19:00/12
  teesheet presets delete twilight`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and saved presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show KEY",
	Short: "Show the rules of a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save rules as a named preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsSave,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd, presetsShowCmd, presetsSaveCmd, presetsDeleteCmd)

	presetsSaveCmd.Flags().StringSliceVar(&saveSlots, "slot", nil, "time-slot rule HH:MM-HH:MM/N (repeatable)")
	presetsSaveCmd.MarkFlagRequired("slot")
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	list, err := store.List(cmd.Context())
	printPresets(cmd.OutOrStdout(), list)
	if err != nil {
		// Built-ins are still listed
		return fmt.Errorf("failed to read saved presets: %w", err)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	preset, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	kind := "saved"
	if preset.Builtin {
		kind = "built-in"
	}
	fmt.Fprintf(out, "%s (%s, key %s)\n", preset.DisplayName, kind, preset.Key)
	printRules(out, preset.Slots)
	return nil
}

func runPresetsSave(cmd *cobra.Command, args []string) error {
	rules, err := models.ParseTimeSlotRules(saveSlots)
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	preset, err := store.Save(cmd.Context(), args[0], rules)
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %s as %s (%d rules, %d tee times per day)\n",
		preset.DisplayName, preset.Key, len(preset.Slots), preset.TotalPerDay())
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	key := strings.TrimSpace(args[0])
	preset, err := store.Get(cmd.Context(), key)
	if err != nil {
		return err
	}
	if preset.Builtin {
		return fmt.Errorf("preset %s is built-in and cannot be deleted", preset.Key)
	}
	if err := store.Delete(cmd.Context(), key); err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %s\n", key)
	return nil
}

// printPresets prints one line per preset
func printPresets(w io.Writer, list []models.SchedulePreset) {
	for _, p := range list {
		kind := ""
		if p.Builtin {
			kind = " (built-in)"
		}
		fmt.Fprintf(w, "%-16s %-20s %2d rules %4d/day%s\n", p.Key, p.DisplayName, len(p.Slots), p.TotalPerDay(), kind)
	}
}

// printRules prints a numbered rule list with per-day counts
func printRules(w io.Writer, rules []models.TimeSlotRule) {
	for i, r := range rules {
		fmt.Fprintf(w, "  %d. %-16s %3d tee times\n", i+1, r.String(), r.Count())
	}
}
