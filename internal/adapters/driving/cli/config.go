package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialise settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the settings file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svcs, err := loadServices(cmd, Options{NoHistory: true})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	data, err := toml.Marshal(svcs.Settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	cmd.Printf("# %s\n", svcs.ConfigPath)
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	svcs, err := loadServices(cmd, Options{NoHistory: true})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.SaveSettings == nil {
		return errors.New("settings store not configured")
	}

	if _, err := os.Stat(svcs.ConfigPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", svcs.ConfigPath)
	}

	if err := svcs.SaveSettings(svcs.Settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Settings written to %s\n", svcs.ConfigPath)
	return nil
}
