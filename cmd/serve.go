package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-admin/apperr"
	"catalog-admin/auth"
	"catalog-admin/controllers"
	"catalog-admin/images"
	"catalog-admin/models"
	"catalog-admin/routes"
	"catalog-admin/store"
)

const (
	bootstrapUserFlag     = "bootstrap-admin"
	bootstrapPasswordFlag = "bootstrap-password"
)

var serveFlags = map[string]cobraflags.Flag{
	bootstrapUserFlag: &cobraflags.StringFlag{
		Name:  bootstrapUserFlag,
		Value: "",
		Usage: "Create this admin on startup if it does not exist",
	},
	bootstrapPasswordFlag: &cobraflags.StringFlag{
		Name:  bootstrapPasswordFlag,
		Value: "",
		Usage: "Password for --bootstrap-admin",
	},
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin console HTTP API",
		RunE:  runServe,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("error closing catalog store", zap.Error(err))
		}
	}()

	if err := seedAdmin(ctx, st, serveFlags[bootstrapUserFlag].GetString(),
		serveFlags[bootstrapPasswordFlag].GetString(), log); err != nil {
		return err
	}

	host, err := openHost(ctx, cfg, log)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	ctrl := controllers.New(st, provider, host,
		images.NewLocalPreviews(cfg.UploadDir, cfg.UploadURLPrefix),
		images.NewRules(cfg.MaxUploadBytes), cfg.MaxImages, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Setup(ctrl, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedAdmin(ctx context.Context, st store.Admins, username, password string, log *zap.Logger) error {
	if username == "" {
		return nil
	}
	if password == "" {
		return errors.New("--bootstrap-password is required with --bootstrap-admin")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = st.CreateAdmin(ctx, models.Admin{Username: username, PasswordHash: hash, IsActive: true})
	if apperr.Is(err, apperr.Conflict) {
		log.Debug("bootstrap admin already exists", zap.String("username", username))
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
