/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package initialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Paintersrp/notehub/internal/config"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

// askBaseURL prompts for the API address. Swapped out in tests.
var askBaseURL = func(initial string) (string, error) {
	in := textinput.New("Note store API base URL:")
	in.InitialValue = initial
	in.Placeholder = "https://notes.example.com/api"
	in.Validate = config.ValidateBaseURL
	return in.RunPrompt()
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func NewCmdInit(s *session.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Write the notehub configuration file.",
		Long: heredoc.Doc(`
			Writes the note store address and token to the configuration file.
			Values come from --base-url and --token, or NOTEHUB_BASE_URL and
			NOTEHUB_TOKEN. On a terminal you are asked for a missing address.
		`),
		Example: heredoc.Doc(`
			notehub init --base-url https://notes.example.com/api
			NOTEHUB_TOKEN=secret notehub init --base-url http://localhost:8080
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := s.Home()
			if err != nil {
				return err
			}

			cfg, err := config.Load(home)
			if errors.Is(err, fs.ErrNotExist) {
				cfg, err = config.Default(home), nil
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			baseURL := strings.TrimSpace(viper.GetString("base_url"))
			if baseURL == "" && stdinIsTerminal() {
				if baseURL, err = askBaseURL(cfg.BaseURL); err != nil {
					return err
				}
			}
			if baseURL == "" {
				return errors.New("no base URL given: pass --base-url or set NOTEHUB_BASE_URL")
			}

			if err := cfg.ChangeBaseURL(baseURL); err != nil {
				return err
			}
			if token := viper.GetString("token"); token != "" {
				cfg.ChangeToken(token)
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", cfg.GetConfigPath())
			return nil
		},
	}

	return cmd
}
