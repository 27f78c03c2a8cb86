package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/posrecovery/cmd/app/commands"
	"github.com/allisson/posrecovery/internal/app"
	"github.com/allisson/posrecovery/internal/config"
)

func getRecoveryCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "recover",
			Usage: "Run one recovery pass over every pending transaction",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "wait",
					Aliases: []string{"w"},
					Value:   true,
					Usage:   "Wait for transactions still in flight on their terminal to resolve",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				reconciler, err := container.Reconciler()
				if err != nil {
					return err
				}
				poller, err := container.Poller()
				if err != nil {
					return err
				}

				return commands.RunRecover(
					ctx,
					reconciler,
					poller,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
					cmd.Bool("wait"),
				)
			},
		},
		{
			Name:  "list-pending",
			Usage: "List transactions whose outcome is not yet confirmed",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.PendingTransactionStore()
				if err != nil {
					return err
				}

				return commands.RunListPending(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
