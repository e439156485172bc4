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
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Paintersrp/notehub/internal/config"
	"github.com/Paintersrp/notehub/internal/constants"
	"github.com/Paintersrp/notehub/pkg/cmd/root"
	"github.com/Paintersrp/notehub/pkg/shared/session"
)

func Execute() {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	s := session.New()
	defer s.Close()

	if err := root.NewCmdRoot(s).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var initErr *config.ConfigInitError
		if errors.As(err, &initErr) {
			fmt.Fprintln(os.Stderr, "Run 'notehub init --base-url <url>' or pass --offline to browse sample notes.")
		}
		s.Close()
		os.Exit(1)
	}
}
