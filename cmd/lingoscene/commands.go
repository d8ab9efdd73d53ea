package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-print"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/lingoscene/lingoscene-api/seed"
	"github.com/lingoscene/lingoscene-api/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := a.Server(ctx)
			if err != nil {
				return err
			}

			if a.Config().Log.Level == "debug" {
				a.Logger().Debug("effective configuration", "config", print.MaybePrettyJSON(a.Config().Redacted()))
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config().Server.ShutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.Migrate(contextOf(cmd))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the latest migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.Rollback(contextOf(cmd))
			},
		},
	)

	return migrate
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a theme with its objects and vocabulary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := contextOf(cmd)
			if a.Config().Database.AutoMigrate {
				if err := a.Migrate(ctx); err != nil {
					return err
				}
			}

			summary, err := seed.Run(ctx, a.Services.Themes, file)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported theme %q (id %d): %d objects, %d vocabulary items\n",
				summary.Theme.Name, summary.Theme.ID, summary.Objects, summary.Vocabulary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "glb-data.json", "Scene file (JSON or YAML)")
	return cmd
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var (
		email     string
		name      string
		useHashid bool
	)

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			payload := &schema.User{Email: &email, Password: &password}
			if name != "" {
				payload.Name = &name
			}
			if err := schema.ValidateValue(payload); err != nil {
				return describe(err)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.Services.Users.Bootstrap(contextOf(cmd), service.RegisterUserMessage{
				Email:     *payload.Email,
				Password:  *payload.Password,
				Name:      payload.Name,
				Role:      auth.RoleAdmin,
				UseHashid: useHashid,
			})
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	create.Flags().StringVar(&email, "email", "", "Administrator email")
	create.Flags().StringVar(&name, "name", "", "Display name")
	create.Flags().BoolVar(&useHashid, "hashid", false, "Derive the user id from the email")
	_ = create.MarkFlagRequired("email")

	admin.AddCommand(create)
	return admin
}

func newAudioCmd(opts *rootOptions) *cobra.Command {
	audio := &cobra.Command{
		Use:   "audio",
		Short: "Pronunciation audio tasks",
	}

	audio.AddCommand(&cobra.Command{
		Use:   "backfill",
		Short: "Look up audio for every vocabulary item without one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Services.Vocabulary.BackfillAudio(contextOf(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %d vocabulary items\n", n)
			return nil
		},
	})

	return audio
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), print.MaybePrettyJSON(c.Redacted()))
			return nil
		},
	})

	return cfg
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise, so passwords can be piped in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// describe renders validation details and the failing location into the
// error text for the terminal.
func describe(err error) error {
	rich, ok := apierr.As(err)
	if !ok {
		return err
	}

	msg := rich.Message
	if at, ok := rich.Metadata["at"]; ok {
		msg = fmt.Sprintf("%s: %s", at, msg)
	}
	if details := apierr.Details(rich); len(details) > 0 {
		msg += "\n" + print.MaybePrettyJSON(details)
	}
	return errors.New(msg)
}
