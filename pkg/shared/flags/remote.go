package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AddRemote registers the persistent flags that pick the note store and
// binds the overrides into viper so they win over the config file.
func AddRemote(cmd *cobra.Command, offline *bool) {
	cmd.PersistentFlags().
		BoolVar(offline, "offline", false, "Use built-in sample notes instead of the configured note store.")
	cmd.PersistentFlags().
		String("base-url", "", "Note store API base URL (overrides base_url).")
	cmd.PersistentFlags().
		String("token", "", "Bearer token for the note store (overrides token).")
	cmd.PersistentFlags().
		String("log-level", "", "Log level: debug, info, warn or error.")

	viper.BindPFlag("base_url", cmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("token", cmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
}
