package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askdesk/askdesk/internal/profile"
	"github.com/askdesk/askdesk/server"
	"github.com/askdesk/askdesk/store"
	"github.com/askdesk/askdesk/store/db"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askdesk",
		Short: "askdesk is a retrieval-augmented support chat service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	cmd.PersistentFlags().String("addr", "", "address of server")
	cmd.PersistentFlags().Int("port", 8081, "port of server")
	cmd.PersistentFlags().String("data", "", "data directory")
	cmd.PersistentFlags().String("driver", "", "database driver")
	cmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	cmd.PersistentFlags().String("secret", "", "secret used to sign access tokens")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "secret"} {
		_ = viper.BindPFlag(flag, cmd.PersistentFlags().Lookup(flag))
	}
	viper.SetEnvPrefix("askdesk")
	viper.AutomaticEnv()

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "askdesk %s\n", version)
		},
	}
}

// loadProfile builds the server profile from flags and ASKDESK_* env vars.
func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Secret:  viper.GetString("secret"),
		Version: version,
	}
	p.FromEnv()
	if p.Secret == "" {
		p.Secret = "askdesk"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func runServe(ctx context.Context) error {
	serverProfile, err := loadProfile()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver, err := db.NewDBDriver(serverProfile)
	if err != nil {
		return err
	}
	storeInstance := store.New(driver, serverProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return err
	}

	s, err := server.NewServer(ctx, serverProfile, storeInstance)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received signal, shutting down", "signal", sig)
		s.Shutdown(ctx)
		cancel()
	}()

	slog.Info("server started",
		"version", version,
		"mode", serverProfile.Mode,
		"driver", serverProfile.Driver,
		"port", serverProfile.Port)

	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
