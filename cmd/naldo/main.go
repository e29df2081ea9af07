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

	"github.com/hyeonlog/naldo/internal/profile"
	"github.com/hyeonlog/naldo/internal/version"
	"github.com/hyeonlog/naldo/server"
	"github.com/hyeonlog/naldo/server/service/schedule"
	"github.com/hyeonlog/naldo/store"
	"github.com/hyeonlog/naldo/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "naldo",
	Short: "A schedule keeper that understands relative date tokens",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:   viper.GetString("mode"),
			Addr:   viper.GetString("addr"),
			Port:   viper.GetInt("port"),
			Data:   viper.GetString("data"),
			Driver: viper.GetString("driver"),
			DSN:    viper.GetString("dsn"),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}
		instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate store: %w", err)
		}

		scheduleService := schedule.NewService(storeInstance, instanceProfile.DedupTTL)

		s := server.NewServer(instanceProfile, storeInstance, scheduleService)
		return s.Start(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 0, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "", "database driver, sqlite or postgres")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("naldo")
	viper.AutomaticEnv()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to start", slog.Any("err", err))
		os.Exit(1)
	}
}
