package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in with the account registered under <email>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := r.app.Users.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", u.Username)
			return nil
		},
	}
}
