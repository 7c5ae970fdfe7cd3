// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/queryware/sqlgate/cmd/app/commands"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	"github.com/queryware/sqlgate/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "sqlgate",
		Usage:   "HTTP gateway for validated SQL queries",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "issue-token",
				Usage: "Issue a signed access token for a subject",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Identity the token asserts",
					},
					&cli.StringFlag{
						Name:    "capabilities",
						Aliases: []string{"c"},
						Value:   "query",
						Usage:   "Comma-separated capability names (read, query, admin)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					if cfg.SigningSecret == "" {
						return fmt.Errorf("SIGNING_SECRET must be configured")
					}
					tokenService := authService.NewTokenService(
						cfg.SigningSecret,
						cfg.TokenExpiration,
					)
					return commands.RunIssueToken(
						tokenService,
						commands.DefaultIO(),
						cmd.String("subject"),
						cmd.String("capabilities"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:      "validate-query",
				Usage:     "Run a SQL statement through the validation pipeline",
				ArgsUsage: "<sql>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					return commands.RunValidateQuery(
						commands.DefaultIO(),
						cfg.QueryMaxLength,
						cmd.Args().First(),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
