package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lelikelen/dashboard-backend/api/controllers"
	"github.com/lelikelen/dashboard-backend/api/middleware"
	"github.com/lelikelen/dashboard-backend/internal/chat"
	"github.com/lelikelen/dashboard-backend/internal/inventory"
	"github.com/lelikelen/dashboard-backend/internal/schedule"
	"github.com/lelikelen/dashboard-backend/internal/stats"
	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	"github.com/lelikelen/dashboard-backend/pkg/config"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
	"github.com/lelikelen/dashboard-backend/pkg/metrics"
	"github.com/lelikelen/dashboard-backend/pkg/redis"
)

// Dependencies bundles everything the router wires into handlers. Optional
// fields (redis, hub, metrics) may be nil; the affected routes degrade
// gracefully.
type Dependencies struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Hub     *changefeed.Hub
	Metrics *metrics.HTTPMetrics

	Inventory inventory.Service
	Schedule  schedule.Service
	Stats     stats.Service
	Chat      chat.Service
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	pingers := map[string]controllers.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, pingers))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.OptionalAuth(deps.Config.JWT, deps.Logger))

		api.Get("/inventory", controllers.ListInventory(deps.Inventory, deps.Logger))
		api.Get("/schedule", controllers.GetSchedule(deps.Schedule, deps.Logger))
		api.Get("/stats", controllers.GetStats(deps.Stats, deps.Logger))
		api.Get("/events", controllers.StreamEvents(deps.Hub, deps.Logger))

		api.Group(func(chatRoutes chi.Router) {
			if deps.Redis != nil {
				chatRoutes.Use(middleware.Idempotency(deps.Redis, deps.Logger))
			}
			chatRoutes.Post("/chat", controllers.SendChat(deps.Chat, deps.Logger))
		})
		api.Get("/chat/history", controllers.GetChatHistory(deps.Chat, deps.Logger))
	})

	return r
}
