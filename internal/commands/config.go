package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/projassist/internal/config"
	"github.com/diogo/projassist/internal/render"
)

func newConfigCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after applying the config file, PROJASSIST_*
environment variables and command-line flags, along with the file path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			out := cmd.OutOrStdout()
			if path, err := config.GetConfigPath(); err == nil {
				fmt.Fprintf(out, "# %s\n", path)
			}
			fmt.Fprintln(out, string(data))
			fmt.Fprintf(out, "# themes: %s\n", strings.Join(render.TUIThemeNames(), ", "))
			return nil
		},
	}
}
