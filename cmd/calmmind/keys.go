package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/transport"
	"github.com/rpggio/calmmind/internal/ui"
)

func newKeyCmd() *cobra.Command {
	var (
		user    string
		isAdmin bool
	)
	cmd := &cobra.Command{
		Use:   "add-key",
		Short: "Create an API key for a user",
		Long:  "Create an API key for a user. The token is printed once; only its hash is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := transport.IssueKey(cmd.Context(), a.apiKeys, user, isAdmin)
			if err != nil {
				return err
			}
			a.logger.Info("api key created", "user", user, "admin", isAdmin)
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Token", token))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Send it as `Authorization: Bearer <token>`. It is not shown again."))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user the key authenticates as")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "allow the admin tools")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
