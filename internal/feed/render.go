// Package feed renders the recent posts feed for the terminal.
package feed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/pscheid92/forumclient/internal/domain"
)

const dateLayout = "Jan 2, 2006, 15:04"

// FormatDate formats t in loc for display. A nil loc means local time.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}

// Options controls how posts are rendered.
type Options struct {
	Location     *time.Location
	ShowComments bool
}

var (
	titleColor  = color.New(color.Bold)
	authorColor = color.New(color.FgCyan)
	upColor     = color.New(color.FgGreen)
	downColor   = color.New(color.FgRed)
)

// RenderPosts writes every post separated by a blank line. An empty feed prints a placeholder.
func RenderPosts(w io.Writer, posts []domain.Post, opts Options) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts yet.")
		return err
	}

	for i, p := range posts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := RenderPost(w, p, opts); err != nil {
			return err
		}
	}
	return nil
}

func RenderPost(w io.Writer, p domain.Post, opts Options) error {
	var b strings.Builder

	fmt.Fprintln(&b, titleColor.Sprint(p.Title))
	fmt.Fprintf(&b, "by %s on %s\n", authorColor.Sprint(p.AuthorName()), FormatDate(p.DateCreated, opts.Location))
	if p.Content != "" {
		fmt.Fprintln(&b, p.Content)
	}
	fmt.Fprintf(&b, "%s  %s  %d comments\n",
		upColor.Sprintf("+%d", p.Upvotes()), downColor.Sprintf("-%d", p.Downvotes()), p.CommentCount())

	if opts.ShowComments {
		for _, c := range p.Comments {
			fmt.Fprintf(&b, "  > %s\n", c.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
