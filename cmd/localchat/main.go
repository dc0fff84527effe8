package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raunak51299/LocalChatApp/internal/app"
	"github.com/raunak51299/LocalChatApp/internal/config"
	"github.com/raunak51299/LocalChatApp/internal/log"
	"github.com/raunak51299/LocalChatApp/internal/store"
	"github.com/raunak51299/LocalChatApp/internal/store/sqlite"
)

var configPath string

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "localchat",
		Short: "LocalChatApp room-based chat server",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(serveCmd(), seedCmd(), resetCmd(), clearHistoryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	bootLogger := log.New("info")
	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cfg.LogLevel)

			if cfg.AdminPassword == "" {
				logger.Warn().Msg("admin_password is empty, joins as the admin username are rejected")
			}

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("addr", cfg.Addr).Msg("starting localchat server")
			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
}

// seedCmd restores the default rooms and the admin user.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default rooms and admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cfg.LogLevel)

			st, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			defaults := []struct{ name, description string }{
				{"General", "General discussion for everyone"},
				{"Random", "Random conversations and fun topics"},
				{"Tech Talk", "Technology and programming discussions"},
			}
			for _, room := range defaults {
				if _, err := st.CreateRoom(ctx, room.name, room.description); err != nil {
					logger.Warn().Err(err).Str("room", room.name).Msg("room not created")
					continue
				}
				logger.Info().Str("room", room.name).Msg("room created")
			}

			if _, err := st.FindUserByUsername(ctx, "admin"); errors.Is(err, store.ErrNotFound) {
				if _, err := st.CreateUser(ctx, "admin", true); err != nil {
					return fmt.Errorf("create admin user: %w", err)
				}
				logger.Info().Msg("admin user created")
			}

			logger.Info().Msg("database seeded")
			return nil
		},
	}
}

// resetCmd drops every table; run seed afterwards to restore defaults.
func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cfg.LogLevel)

			st, err := sqlite.NewWithSetup(cfg.DatabasePath, nil)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer st.Close()

			if err := st.Reset(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("database cleared, run seed to restore default rooms")
			return nil
		},
	}
}

// clearHistoryCmd deletes all messages and users but preserves rooms.
func clearHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-history",
		Short: "Delete all messages and users, keeping rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cfg.LogLevel)

			st, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			messages, err := st.DeleteAllMessages(ctx)
			if err != nil {
				return fmt.Errorf("delete messages: %w", err)
			}
			users, err := st.DeleteAllUsers(ctx)
			if err != nil {
				return fmt.Errorf("delete users: %w", err)
			}

			logger.Info().Int64("messages", messages).Int64("users", users).Msg("chat history cleared, rooms preserved")
			return nil
		},
	}
}
