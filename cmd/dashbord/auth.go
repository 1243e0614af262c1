package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/evgengiga/dashbord/internal/api"
	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the dashboard backend",
		Long: `Sign in with your work email and store the session locally.

Pass --password - to type the password without echo.`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "work email")
	cmd.Flags().String("password", "", "password, or - to prompt")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "-" {
		p, err := readPassword()
		if err != nil {
			return err
		}
		password = p
	}

	client := newAPIClient("")
	var session *model.Session
	err := cli.WithSpinner(os.Stderr, "Вход...", func() error {
		var err error
		session, err = client.Authenticate(ctx, model.Credentials{Email: strings.TrimSpace(email), Password: password})
		return err
	})
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}()

	if err := store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	common.LogInfo("Logged in", common.Fields{"email": session.UserEmail})
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Вы вошли как "+displayName(session.UserName, session.UserEmail)))
	return nil
}

func readPassword() (string, error) {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(fd) {
		return "", common.NewUserError("Пароль можно ввести только в терминале", common.ErrMissingConfig)
	}
	fmt.Fprint(os.Stderr, "Пароль: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSession(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Сессия удалена"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE:  runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session, err := store.GetSession(ctx)
	if errors.Is(err, common.ErrNoSession) {
		fmt.Fprintln(cmd.OutOrStdout(), "Вход не выполнен")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	profile, err := newAPIClient(session.Token).Profile(ctx, session.Token)
	if api.IsUnauthorized(err) {
		return expireSession(ctx, store, err)
	}
	if err != nil {
		common.LogError(err, "Failed to verify session", nil)
		fmt.Fprintln(out, displayName(session.UserName, session.UserEmail))
		fmt.Fprintln(out, cli.FormatWarning("Не проверено: "+common.UserMessage(err, "нет связи с сервером")))
		return nil
	}

	fmt.Fprintln(out, displayName(profile.Name, profile.Email))
	fmt.Fprintln(out, cli.FormatSubtle("Вход выполнен: "+session.CreatedAt.Local().Format(timeFormat)))
	return nil
}

func displayName(name, email string) string {
	switch {
	case name == "":
		return email
	case email == "":
		return name
	default:
		return fmt.Sprintf("%s <%s>", name, email)
	}
}
