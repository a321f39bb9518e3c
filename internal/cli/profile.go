package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pscheid92/forumclient/internal/domain"
)

var errNothingToUpdate = errors.New("nothing to update, pass at least one flag")

func newProfileCmd(r *runtime) *cobra.Command {
	var username, email, firstName, lastName, password string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := r.app.Session.User()
			if u == nil {
				return domain.ErrNotLoggedIn
			}

			f := cmd.Flags()
			patch := domain.UserPatch{
				Username:  changed(f, "username", username),
				Email:     changed(f, "email", email),
				FirstName: changed(f, "first-name", firstName),
				LastName:  changed(f, "last-name", lastName),
				Password:  changed(f, "password", password),
			}
			if patch.IsEmpty() {
				return errNothingToUpdate
			}

			resp, err := r.app.Users.UpdateUser(cmd.Context(), u.ID, patch)
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("%w: %s", domain.ErrRejected, resp.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile of %s updated\n", resp.Data.Username)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&username, "username", "", "new username")
	f.StringVar(&email, "email", "", "new email address")
	f.StringVar(&firstName, "first-name", "", "new first name")
	f.StringVar(&lastName, "last-name", "", "new last name")
	f.StringVar(&password, "password", "", "new password")
	return cmd
}

func changed(f *pflag.FlagSet, name, value string) *string {
	if !f.Changed(name) {
		return nil
	}
	return &value
}
