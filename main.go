package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/nem-integration/cmd"
	"github.com/anicoll/nem-integration/pkg/hasher"
)

func main() {
	app := &cli.App{
		Name:   "nem-integration",
		Usage:  "AEMO NEM dashboard integration service",
		Action: cmd.NemCommand,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "regions",
				EnvVars: []string{"NEM_REGIONS"},
				Usage:   "lowercase region short codes, e.g. nsw,qld",
			},
			&cli.StringFlag{
				Name:    "aemo-url",
				EnvVars: []string{"AEMO_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:     "database-url",
				EnvVars:  []string{"DATABASE_URL"},
				Value:    "",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_HOST"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASS"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "listen-addr",
				EnvVars: []string{"LISTEN_ADDR"},
				Value:   "",
			},
			&cli.DurationFlag{
				Name:    "poll-interval",
				EnvVars: []string{"POLL_INTERVAL"},
			},
			&cli.Float64Flag{
				Name:    "alert-percent",
				EnvVars: []string{"ALERT_PERCENT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "hash-api-key",
				Usage:  "print a bcrypt hash for an API key, generating one if none is given",
				Action: hashAPIKeyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "key",
						Value: "",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func hashAPIKeyCommand(ctx *cli.Context) error {
	key := ctx.String("key")
	if key == "" {
		generated, err := hasher.GenerateToken(32)
		if err != nil {
			return err
		}
		key = generated
		fmt.Println("key:", key)
	}
	hash, err := hasher.HashKey([]byte(key))
	if err != nil {
		return err
	}
	fmt.Println("hash:", hash)
	return nil
}
