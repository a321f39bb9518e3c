package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pscheid92/forumclient/internal/domain"
)

func newAvatarCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := r.app.Session.User()
			if u == nil {
				return domain.ErrNotLoggedIn
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open avatar: %w", err)
			}
			defer func() { _ = f.Close() }()

			name := filepath.Base(args[0])
			resp, err := r.app.Users.UpdateAvatar(cmd.Context(), u.ID, name, mime.TypeByExtension(filepath.Ext(name)), f)
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("%w: %s", domain.ErrRejected, resp.Error)
			}
			if resp.Data.Avatar != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Avatar set to %s\n", *resp.Data.Avatar)
			}
			return nil
		},
	}
}
