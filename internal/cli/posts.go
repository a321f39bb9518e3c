package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/pscheid92/forumclient/internal/feed"
)

func newPostsCmd(r *runtime) *cobra.Command {
	var opts feed.Options
	var suggest bool

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Show the most recent posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			// A failed fetch is already reported as a warning; the feed just renders empty.
			resp := r.app.Posts.GetRecentPosts(cmd.Context())
			if err := feed.RenderPosts(out, resp.Data.Posts, opts); err != nil {
				return err
			}

			if !suggest {
				return nil
			}
			seed := uint64(r.app.Clock.Now().UnixNano())
			fmt.Fprintln(out, "\nNeed inspiration? Try replying with:")
			for _, s := range feed.Suggestions(rand.New(rand.NewPCG(seed, seed>>1))) {
				fmt.Fprintf(out, "  - %s\n", s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.ShowComments, "comments", false, "include comments under each post")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "print comment suggestions after the feed")
	return cmd
}
