package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/coursehub/internal/bootstrap"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "coursehub-api",
		Usage: "development course API serving /api/courses from an in-memory catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"COURSEHUB_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			srv, err := server.NewServer(c.String("config"))
			if err != nil {
				logger.Error().Err(err).Msg("Failed to initialize server")
				return cli.Exit("", 1)
			}

			if err := srv.Run(); err != nil {
				logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
				return cli.Exit("", 1)
			}

			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("coursehub-api failed")
		os.Exit(1)
	}
}
