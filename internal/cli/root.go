// Package cli implements the forum command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pscheid92/forumclient/internal/app"
	"github.com/pscheid92/forumclient/internal/navigate"
	"github.com/pscheid92/forumclient/internal/notify"
	"github.com/pscheid92/forumclient/internal/platform/config"
	"github.com/pscheid92/forumclient/internal/platform/logging"
)

// annotationNoApp marks commands that run without building the client.
const annotationNoApp = "forum/no-app"

// Deps lets callers replace configuration loading and the client's collaborators.
type Deps struct {
	LoadConfig func() (*config.Config, error)
	App        app.Options
}

type runtime struct {
	deps Deps
	app  *app.App
}

// Run executes the command line with args and releases the client afterwards.
func Run(ctx context.Context, deps Deps, args []string, stdout, stderr io.Writer) error {
	r := &runtime{deps: deps}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if r.app == nil {
			return
		}
		if err := r.app.Close(); err != nil {
			slog.WarnContext(ctx, "Failed to release client", "error", err)
		}
	}()
	return root.ExecuteContext(ctx)
}

func (r *runtime) rootCommand() *cobra.Command {
	if r.deps.LoadConfig == nil {
		r.deps.LoadConfig = config.Load
	}

	root := &cobra.Command{
		Use:           "forum",
		Short:         "Forum client: read the feed and manage your account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNoApp] != "" {
				return nil
			}
			return r.start(cmd)
		},
	}

	root.AddCommand(
		newRegisterCmd(r),
		newLoginCmd(r),
		newLogoutCmd(r),
		newWhoamiCmd(r),
		newProfileCmd(r),
		newAvatarCmd(r),
		newPostsCmd(r),
		newProxyCmd(r),
		newVersionCmd(),
	)
	return root
}

func (r *runtime) start(cmd *cobra.Command) error {
	cfg, err := r.deps.LoadConfig()
	if err != nil {
		return err
	}
	logging.InitLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	opts := r.deps.App
	if opts.Sink == nil {
		opts.Sink = toastPrinter(cmd.ErrOrStderr())
	}
	if opts.OnRedirect == nil {
		opts.OnRedirect = redirectHint(cmd.ErrOrStderr())
	}

	a, err := app.New(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	r.app = a
	slog.DebugContext(cmd.Context(), "Command starting", "command", cmd.Name(), "logged_in", a.Session.IsLoggedIn())
	return nil
}

var toastColors = map[notify.Level]*color.Color{
	notify.LevelSuccess: color.New(color.FgGreen),
	notify.LevelInfo:    color.New(color.FgCyan),
	notify.LevelWarning: color.New(color.FgYellow),
	notify.LevelError:   color.New(color.FgRed),
}

func toastPrinter(w io.Writer) notify.Sink {
	return func(t notify.Toast) {
		c, ok := toastColors[t.Level]
		if !ok {
			c = color.New(color.Reset)
		}
		_, _ = c.Fprintf(w, "[%s] %s\n", t.Level, t.Message)
	}
}

func redirectHint(w io.Writer) navigate.Listener {
	return func(_, to string) {
		if to == navigate.LoginPath {
			_, _ = fmt.Fprintln(w, "Your session has ended. Run `forum login <email>` to sign in again.")
		}
	}
}

// Execute runs the command line with the process arguments and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := Run(ctx, Deps{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
