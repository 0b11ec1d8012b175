package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"microchat/cmd/app"
	"microchat/internal/config"
	"microchat/internal/observability"
	"microchat/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// rootOptions carries the config loaded before any subcommand runs.
type rootOptions struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "microchat",
		Short:         "Microchat - чаты, подписки и новости",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// setting up config
			opts.cfg = config.LoadConfig()
			observability.SetupLogger(os.Stdout, opts.cfg.LogLevel)
			return nil
		},
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))

	return cmd
}

func newServeCommand(root *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.cfg.JWTSecretKey == "" {
				return fmt.Errorf("JWT_SECRET_KEY не установлен")
			}

			a, err := app.New(cmd.Context(), root.cfg, migrate)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "применить миграции перед запуском")
	return cmd
}

func newMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), root.cfg, true)
			if err != nil {
				return err
			}
			a.Close()
			return nil
		},
	}
}

func newSeedCommand(root *rootOptions) *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Заполнить БД тестовыми данными",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), root.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := seed.New(a.Services, opts).Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "пользователей: %d, бесед: %d, сообщений: %d, новостей: %d\n",
				len(result.Users), len(result.Chats), result.Messages, result.News)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "количество пользователей")
	cmd.Flags().IntVar(&opts.Chats, "chats", opts.Chats, "количество бесед")
	cmd.Flags().IntVar(&opts.MessagesPerChat, "messages", opts.MessagesPerChat, "сообщений в каждой беседе")
	cmd.Flags().IntVar(&opts.NewsPerUser, "news", opts.NewsPerUser, "новостей у каждого пользователя")
	cmd.Flags().IntVar(&opts.FollowsPerUser, "follows", opts.FollowsPerUser, "подписок у каждого пользователя")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "зерно генератора")

	return cmd
}
