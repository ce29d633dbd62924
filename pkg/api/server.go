package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/account"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/api/routes"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/gtfsrt"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/realtime"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/reconciler"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/redis_client"
	"github.com/tanvirr-mahmud/transport-nsw-live/pkg/tfnsw"
)

func SetupServer(listen string) error {
	tripPlannerClient := tfnsw.NewClientFromEnvironment()
	feedClient := gtfsrt.NewClientFromEnvironment()

	tracker := realtime.NewVehicleTracker(feedClient)
	go tracker.Run(context.Background())

	favouritesStore := account.FavouritesStore{Redis: redis_client.Client}
	preferencesStore := account.PreferencesStore{Redis: redis_client.Client}

	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"), tripPlannerClient, preferencesStore)

	routes.PlannerRouter(group.Group("/planner"), reconciler.NewOrchestrator(tripPlannerClient))

	routes.VehiclesRouter(group.Group("/vehicles"), tracker, preferencesStore)

	routes.TripsRouter(group.Group("/trips"), realtime.Lookup{Feed: feedClient})

	routes.AccountRouter(group.Group("/account"), favouritesStore, preferencesStore)

	return webApp.Listen(listen)
}
