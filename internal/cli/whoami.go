package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pscheid92/forumclient/internal/domain"
)

func newWhoamiCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := r.app.Session.User()
			if u == nil {
				return domain.ErrNotLoggedIn
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", u.DisplayName(), u.Email)
			fmt.Fprintf(out, "username: %s\n", u.Username)
			fmt.Fprintf(out, "id:       %s\n", u.ID)
			if u.Avatar != nil {
				fmt.Fprintf(out, "avatar:   %s\n", *u.Avatar)
			}
			return nil
		},
	}
}
