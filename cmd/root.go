// Package cmd berisi perintah CLI catalog-admin.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-admin/config"
)

var (
	configFile string
	verbose    bool
)

// NewRootCommand merakit pohon perintah.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-admin",
		Short:         "Product catalog admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "",
		"Optional config file (yaml, json or toml); environment variables take precedence")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newServeCommand())
	root.AddCommand(newAdminCommand())
	root.AddCommand(newLoginCommand())
	root.AddCommand(newLogoutCommand())
	root.AddCommand(newWhoamiCommand())
	root.AddCommand(newProductsCommand())
	return root
}

// Execute menjalankan CLI dan keluar dengan status 1 bila gagal.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap memuat konfigurasi dan logger untuk satu perintah.
func bootstrap() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := config.NewLogger(cfg.Env, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
