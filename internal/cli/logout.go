package cli

import (
	"github.com/spf13/cobra"
)

func newLogoutCmd(r *runtime) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.app.Users.Logout(cmd.Context())
			if purge {
				r.app.Session.Purge(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "also delete the stored session record")
	return cmd
}
