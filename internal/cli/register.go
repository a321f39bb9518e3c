package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pscheid92/forumclient/internal/domain"
)

func newRegisterCmd(r *runtime) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long:  "Create an account and sign in. Without --password a random one is generated and printed once.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, generated, err := r.app.Users.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered as %s (%s)\n", resp.Data.Username, resp.Data.Email)
			if generated != "" {
				fmt.Fprintf(out, "Generated password: %s\n", generated)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&reg.Username, "username", "", "username (2 to 50 characters)")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	f.StringVar(&reg.Password, "password", "", "password (8 to 20 characters with lower case, upper case and a digit)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
