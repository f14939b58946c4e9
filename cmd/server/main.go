// cmd/server/main.go
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/config"
	"github.com/voxblast/callcenter-backend/internal/controller"
	"github.com/voxblast/callcenter-backend/internal/db"
	"github.com/voxblast/callcenter-backend/internal/gateway"
	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/notify"
	"github.com/voxblast/callcenter-backend/internal/queue"
	"github.com/voxblast/callcenter-backend/internal/repository"
	"github.com/voxblast/callcenter-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		logrus.Warn("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	conn := db.Init(cfg)

	creditRepo := &repository.CreditRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	callRepo := &repository.CallRepository{DB: conn}
	statusRepo := &repository.CampaignStatusRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}
	webhookRepo := &repository.WebhookRepository{DB: conn}

	hub := notify.NewHub()
	apidaze := gateway.NewApidazeGateway(cfg.ApidazeAPIKey, cfg.ApidazeAPISecret)

	// With AMQP_URL set, runs are published to RabbitMQ and consumed by the
	// worker binary. Without it, the dispatcher runs inside this process.
	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
		if err != nil {
			logrus.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		logrus.Info("campaign runs dispatched via RabbitMQ")
	} else {
		memQueue := queue.NewInMemoryQueue()
		dispatcher := &service.Dispatcher{
			CampaignRepo: campaignRepo,
			ContactRepo:  contactRepo,
			CallRepo:     callRepo,
			CreditRepo:   creditRepo,
			StatusRepo:   statusRepo,
			SettingsRepo: settingsRepo,
			Gateway:      apidaze,
			Notifier:     hub,
		}
		queue.StartCampaignRunSubscriber(memQueue, dispatcher)
		q = memQueue
		logrus.Info("campaign runs dispatched in-process")
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ContactRepo:  contactRepo,
		CreditRepo:   creditRepo,
		StatusRepo:   statusRepo,
		Queue:        q,
	}
	callService := &service.CallService{
		CallRepo:   callRepo,
		CreditRepo: creditRepo,
		StatusRepo: statusRepo,
		Gateway:    apidaze,
	}
	webhookService := &service.WebhookService{
		ContactRepo:  contactRepo,
		CampaignRepo: campaignRepo,
		WebhookRepo:  webhookRepo,
		Notifier:     hub,
	}

	validate := validator.New()

	campaignController := &controller.CampaignController{CampaignService: campaignService, Validate: validate}
	callController := &controller.CallController{CallService: callService, Validate: validate}
	creditController := &controller.CreditController{CreditRepo: creditRepo, Validate: validate}
	settingsController := &controller.SettingsController{SettingsRepo: settingsRepo, Validate: validate}
	webhookController := &controller.WebhookController{WebhookService: webhookService}

	r := chi.NewRouter()

	// Provider callback and websocket feed are unauthenticated.
	r.Get("/webhook", webhookController.HandleWebhook)
	r.Get("/ws", hub.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Post("/calls", callController.MakeCall)
			r.Get("/calls", callController.ListCalls)
			r.Get("/calls/stats", callController.CallStats)

			r.Post("/bulk-calls", campaignController.CreateBulkCall)
			r.Get("/bulk-calls", campaignController.ListBulkCalls)
			r.Get("/bulk-calls/{id}", campaignController.GetBulkCall)
			r.Post("/bulk-calls/{id}/start", campaignController.StartBulkCall)
			r.Post("/bulk-calls/{id}/cancel", campaignController.CancelBulkCall)

			r.Get("/campaign-status", campaignController.CampaignStatus)
			r.Get("/credits", creditController.GetCredits)

			r.Get("/webhook-responses", webhookController.ListResponses)
			r.Delete("/webhook-responses/{id}", webhookController.DeleteResponse)

			r.Get("/system-settings", settingsController.GetSystemSettings)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/admin/users/{id}/credits", creditController.UpdateUserCredits)
			r.Put("/system-settings", settingsController.UpdateSystemSettings)
		})
	})

	logrus.Infof("🚀 Server running on %s", cfg.ListenAddr)
	logrus.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
