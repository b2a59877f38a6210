package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "painel",
		Usage:   "API do painel de leads e prompts alimentado pelos webhooks do n8n",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Usage:   "arquivos .env carregados antes das variáveis PAINEL_*",
				Value:   cli.NewStringSlice(".env"),
				EnvVars: []string{"PAINEL_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "sobrescreve log.level (debug, info, warn, error)",
				EnvVars: []string{"PAINEL_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			snapshotCommand(),
			auditCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
