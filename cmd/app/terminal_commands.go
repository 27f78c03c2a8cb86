package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/posrecovery/cmd/app/commands"
	"github.com/allisson/posrecovery/internal/app"
	"github.com/allisson/posrecovery/internal/config"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

func getTerminalCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register-terminal",
			Usage: "Register a payment terminal and encrypt its API key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Terminal identifier (e.g., lane-1)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable terminal name",
				},
				&cli.StringFlag{
					Name:     "address",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Terminal host or IP address",
				},
				&cli.IntFlag{
					Name:     "port",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Terminal API port",
				},
				&cli.StringSliceFlag{
					Name:    "capability",
					Aliases: []string{"c"},
					Usage:   "Terminal capability, repeatable (e.g., tls)",
				},
				&cli.StringFlag{
					Name:     "api-key",
					Aliases:  []string{"k"},
					Required: true,
					Sources:  cli.EnvVars("TERMINAL_API_KEY"),
					Usage:    "Terminal API key",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				terminalUseCase, err := container.TerminalUseCase()
				if err != nil {
					return err
				}

				return commands.RunRegisterTerminal(
					ctx,
					terminalUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					&terminalDomain.RegisterTerminalInput{
						ID:           cmd.String("id"),
						Name:         cmd.String("name"),
						Address:      cmd.String("address"),
						Port:         int(cmd.Int("port")),
						Capabilities: cmd.StringSlice("capability"),
						APIKey:       cmd.String("api-key"),
					},
					cmd.String("format"),
				)
			},
		},
	}
}
