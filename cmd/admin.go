package cmd

import (
	"context"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"catalog-admin/auth"
	"catalog-admin/models"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
	emailFlag    = "email"
)

var adminCreateFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{Name: usernameFlag, Usage: "Admin username (required)"},
	passwordFlag: &cobraflags.StringFlag{Name: passwordFlag, Usage: "Admin password; prompted when empty"},
	emailFlag:    &cobraflags.StringFlag{Name: emailFlag, Usage: "Admin email"},
}

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var inactive bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdminCreate(cmd, !inactive)
		},
	}
	cobraflags.RegisterMap(create, adminCreateFlags)
	create.Flags().BoolVar(&inactive, "inactive", false, "Create the account disabled")

	cmd.AddCommand(create)
	return cmd
}

func runAdminCreate(cmd *cobra.Command, active bool) error {
	username := adminCreateFlags[usernameFlag].GetString()
	if username == "" {
		return fmt.Errorf("--%s is required", usernameFlag)
	}
	password, err := passwordOrPrompt(cmd, adminCreateFlags[passwordFlag].GetString())
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
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

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin, err := st.CreateAdmin(ctx, models.Admin{
		Username:     username,
		Email:        adminCreateFlags[emailFlag].GetString(),
		PasswordHash: hash,
		IsActive:     active,
	})
	if err != nil {
		return cliError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", admin.Username, admin.ID)
	return nil
}
