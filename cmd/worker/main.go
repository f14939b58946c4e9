// cmd/worker/main.go
package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/config"
	"github.com/voxblast/callcenter-backend/internal/db"
	"github.com/voxblast/callcenter-backend/internal/gateway"
	"github.com/voxblast/callcenter-backend/internal/queue"
	"github.com/voxblast/callcenter-backend/internal/repository"
	"github.com/voxblast/callcenter-backend/internal/service"
)

// The worker consumes campaign run jobs from RabbitMQ and executes them with
// the same dispatcher the single-binary deployment runs in-process. Call
// attempt notifications stay off here; the websocket hub lives in the API
// server process.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if cfg.AMQPURL == "" {
		logrus.Fatal("AMQP_URL is required for the worker")
	}

	conn := db.Init(cfg)

	dispatcher := &service.Dispatcher{
		CampaignRepo: &repository.CampaignRepository{DB: conn},
		ContactRepo:  &repository.ContactRepository{DB: conn},
		CallRepo:     &repository.CallRepository{DB: conn},
		CreditRepo:   &repository.CreditRepository{DB: conn},
		StatusRepo:   &repository.CampaignStatusRepository{DB: conn},
		SettingsRepo: &repository.SettingsRepository{DB: conn},
		Gateway:      gateway.NewApidazeGateway(cfg.ApidazeAPIKey, cfg.ApidazeAPISecret),
	}

	q, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		logrus.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer q.Close()

	queue.StartCampaignRunSubscriber(q, dispatcher)

	logrus.Info("Worker running, waiting for campaign runs...")
	forever := make(chan bool)
	<-forever
}
