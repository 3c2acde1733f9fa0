package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Exists {
			fmt.Fprintf(out, "%s does not exist, defaults are valid\n", res.Path)
			return nil
		}
		fmt.Fprintf(out, "%s is valid\n", res.Path)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := res.Config.Marshal()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			keys := make([]string, 0, len(res.Sources))
			for k := range res.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				src := res.Sources[k]
				fmt.Fprintf(out, "# %s: %s:%d\n", k, src.File, src.Line)
			}
		}
		_, err = out.Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if res.Exists && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", res.Path)
		}
		if err := config.DefaultConfig().SaveTo(res.Path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.Path)
		return nil
	},
}

func init() {
	configPrintCmd.Flags().Bool("explain", false, "Show where each value was set")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configValidateCmd, configPrintCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
