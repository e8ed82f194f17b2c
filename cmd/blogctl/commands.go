package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

var errNotLoggedIn = errors.New("not logged in, run blogctl login first")

type cli struct {
	open opener
	opts globalOptions
	app  *app
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Terminal client for the blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd, &c.opts)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.opts.apiURL, "api-url", "", "blog API base URL (default BLOGPANEL_API_URL)")
	root.PersistentFlags().StringVar(&c.opts.statePath, "state", defaultStatePath(), "file remembering the login")
	root.PersistentFlags().BoolVarP(&c.opts.verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.postsCommand(),
		c.postCommand(),
	)
	return root
}

func (c *cli) loginCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the credential",
		Long:  "Sign in. Without --password the password is read from the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = line
			}

			store, err := c.session(cmd)
			if err != nil {
				return err
			}
			return store.Login(cmd.Context(), model.Credentials{Username: username, Password: password})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.session(cmd)
			if err != nil {
				return err
			}
			store.Logout(cmd.Context())
			return nil
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.session(cmd)
			if err != nil {
				return err
			}
			if !store.IsAuthenticated() {
				return errNotLoggedIn
			}

			s := store.Snapshot()
			out := cmd.OutOrStdout()
			if s.Profile != nil {
				_, _ = fmt.Fprintf(out, "username: %s\n", s.Profile.DisplayName())
				if s.Profile.Email != "" {
					_, _ = fmt.Fprintf(out, "email:    %s\n", s.Profile.Email)
				}
				_, _ = fmt.Fprintf(out, "role:     %s\n", role(*s.Profile))
			}
			if info, err := application.InspectCredential(s.Credential); err == nil && !info.ExpiresAt.IsZero() {
				_, _ = fmt.Fprintf(out, "expires:  %s\n", info.ExpiresAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (c *cli) postsCommand() *cobra.Command {
	var q model.PostQuery
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.session(cmd)
			if err != nil {
				return err
			}
			page, err := c.app.api.ListPosts(cmd.Context(), store.Credential(), q)
			if err != nil {
				return fmt.Errorf("list posts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(page.Results) == 0 {
				_, _ = fmt.Fprintln(out, "No posts found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "SLUG\tTITLE\tAUTHOR\tVIEWS\tLIKES\tCREATED")
			for _, p := range page.Results {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					p.Slug, p.Title, p.Author.DisplayName(), p.Analytics.Views, p.Analytics.Likes, formatDay(p.CreatedAt))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			number := max(page.Number, 1)
			_, _ = fmt.Fprintf(out, "\npage %d, %d posts", number, page.Count)
			if page.HasNext() {
				_, _ = fmt.Fprintf(out, ", next: --page %d", number+1)
			}
			_, _ = fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 10, "posts per page")
	cmd.Flags().StringVarP(&q.Query, "query", "q", "", "full-text search")
	cmd.Flags().StringVar(&q.Category, "category", "", "category slug")
	cmd.Flags().StringVar(&q.Username, "author", "", "author username")
	return cmd
}

func (c *cli) postCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <slug>",
		Short: "Print one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.session(cmd)
			if err != nil {
				return err
			}
			if !store.IsAuthenticated() {
				return errNotLoggedIn
			}

			p, err := c.app.api.GetPost(cmd.Context(), store.Credential(), args[0])
			if err != nil {
				return fmt.Errorf("get post %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n%s\n", p.Title, strings.Repeat("=", len([]rune(p.Title))))
			_, _ = fmt.Fprintf(out, "by %s", p.Author.DisplayName())
			if p.Category != "" {
				_, _ = fmt.Fprintf(out, " in %s", p.Category)
			}
			if !p.CreatedAt.IsZero() {
				_, _ = fmt.Fprintf(out, " on %s", formatDay(p.CreatedAt))
			}
			_, _ = fmt.Fprintf(out, "\n%d views, %d likes, %d comments\n\n", p.Analytics.Views, p.Analytics.Likes, p.Analytics.Comments)
			_, _ = fmt.Fprintln(out, strings.TrimSpace(p.Content))
			return nil
		},
	}
}

func role(p model.Profile) string {
	switch {
	case p.IsAdmin:
		return "admin"
	case p.IsUser:
		return "user"
	}
	return "unknown"
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
