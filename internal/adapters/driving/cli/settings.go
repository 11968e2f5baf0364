package cli

import (
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and edit configuration",
	Long: `Shows the effective configuration (defaults overlaid with the config
file and environment) and edits individual keys in the config file.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings := application.settings
		settings.Board.AccessToken = redact(settings.Board.AccessToken)
		settings.LLM.APIKey = redact(settings.LLM.APIKey)
		out, err := toml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("render settings: %w", err)
		}
		cmd.Printf("# %s\n%s", application.store.Path(), out)
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config file value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok := application.store.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config file value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.store.Set(args[0], parseValue(args[1])); err != nil {
			return fmt.Errorf("set %q: %w", args[0], err)
		}
		if err := application.store.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		cmd.Printf("Set %s in %s\n", args[0], application.store.Path())
		return nil
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "<set>"
}

// parseValue keeps TOML types for values that look like them.
func parseValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
