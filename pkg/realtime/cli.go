package realtime

import (
	"context"

	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "realtime",
		Usage: "Realtime vehicle tracking",
		Subcommands: []*cli.Command{
			{
				Name:  "track-vehicles",
				Usage: "run a standalone vehicle position tracker",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					tracker := NewVehicleTracker(gtfsrt.NewClientFromEnvironment())
					tracker.Run(context.Background())

					return nil
				},
			},
		},
	}
}
