package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/palette"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose a window in rofi, fuzzel, wofi or dmenu and focus it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("backend")
		if name == "" {
			res, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name = res.Config.PaletteBackend
		}
		backend, err := palette.NewBackend(name)
		if err != nil {
			return err
		}

		client := newClient(cmd)
		status, err := client.GetStatus()
		if err != nil {
			return err
		}
		windows, err := client.ListWindows()
		if err != nil {
			return err
		}

		id, err := palette.PickWindow(backend, *status, windows)
		if errors.Is(err, palette.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		return client.FocusWindow(id)
	},
}

func init() {
	pickCmd.Flags().String("backend", "", "Launcher: auto, rofi, fuzzel, wofi, dmenu (default: palette_backend from config)")
	rootCmd.AddCommand(pickCmd)
}
