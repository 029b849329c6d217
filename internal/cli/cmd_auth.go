// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/config"
)

func (a *App) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
	}
	cmd.AddCommand(a.newAuthSetTokenCmd())
	cmd.AddCommand(a.newAuthWhoamiCmd())
	cmd.AddCommand(a.newAuthTestCmd())
	return cmd
}

func (a *App) newAuthSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token <token>",
		Short: "Save an API access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SaveToken(args[0])
			if err != nil {
				return err
			}
			a.println("Token saved to " + path)
			return nil
		},
	}
}

func (a *App) newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			data, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.Context(), data)
		},
	}
}

func (a *App) newAuthTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the credentials work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				slog.Debug("auth test failed", "error", err)
				return &ExitError{
					Code:     CodeAuthFailed,
					Message:  "Authentication failed. Check your token.",
					ExitCode: ExitAuth,
				}
			}
			a.println("Authenticated as: " + user.Name)
			return nil
		},
	}
}
