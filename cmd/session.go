package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"catalog-admin/apperr"
	"catalog-admin/auth"
	"catalog-admin/models"
)

var errNotSignedIn = errors.New("not signed in; run `catalog-admin login` first")

var loginFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{Name: usernameFlag, Usage: "Admin username (required)"},
	passwordFlag: &cobraflags.StringFlag{Name: passwordFlag, Usage: "Admin password; prompted when empty"},
}

func newLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the admin for later commands",
		RunE:  runLogin,
	}
	cobraflags.RegisterMap(cmd, loginFlags)
	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	username := loginFlags[usernameFlag].GetString()
	if username == "" {
		return fmt.Errorf("--%s is required", usernameFlag)
	}
	password, err := passwordOrPrompt(cmd, loginFlags[passwordFlag].GetString())
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	admin, err := auth.NewVerifier(st).Login(ctx, username, password)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) || apperr.Is(err, apperr.InvalidCredential) {
			return errors.New(auth.LoginFailedMsg)
		}
		return cliError(err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	if _, err := provider.Dir(cfg.SessionDir).Save(admin); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", admin.Username)
	return nil
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			if err := provider.Dir(cfg.SessionDir).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			admin, err := signedIn(cfg.SessionDir, cfg.PasetoSecretKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", admin.Username, admin.ID)
			return nil
		},
	}
}

// signedIn membaca sesi CLI dari direktori sesi.
func signedIn(dir string, key []byte) (models.Admin, error) {
	provider, err := newProviderWithKey(key)
	if err != nil {
		return models.Admin{}, err
	}
	admin, ok := provider.Dir(dir).Read()
	if !ok {
		return models.Admin{}, errNotSignedIn
	}
	return admin, nil
}

func passwordOrPrompt(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// cliError menampilkan pesan publik dari kesalahan domain.
func cliError(err error) error {
	ae, ok := apperr.As(err)
	if !ok {
		return err
	}
	switch ae.Kind {
	case apperr.Internal, apperr.Remote:
		return err
	default:
		return errors.New(ae.PublicMsg)
	}
}
