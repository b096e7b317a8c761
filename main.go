package main

import (
	"context"
	"log"
	"strings"

	"github.com/suportekambafy-lab/checkout-service/config"
	"github.com/suportekambafy-lab/checkout-service/controllers"
	"github.com/suportekambafy-lab/checkout-service/database"
	"github.com/suportekambafy-lab/checkout-service/kafka"
	aws_pkg "github.com/suportekambafy-lab/checkout-service/pkg/aws"
	"github.com/suportekambafy-lab/checkout-service/repository"
	"github.com/suportekambafy-lab/checkout-service/routes"
	"github.com/suportekambafy-lab/checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[CheckoutService] Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg, logger); err != nil {
		log.Fatal("[CheckoutService] Failed to connect to DB:", err)
	}
	defer database.Close()

	orderRepo := repository.NewGormOrderRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	accessRepo := repository.NewGormAccessRepository(database.DB)
	ledgerRepo := repository.NewGormLedgerRepository(database.DB)
	affiliateRepo := repository.NewGormAffiliateRepository(database.DB)
	webhookRepo := repository.NewGormWebhookRepository(database.DB)

	revenueService := services.NewRevenueService(ledgerRepo, affiliateRepo, logger)
	accessService := services.NewAccessService(accessRepo, logger)
	composer := services.NewEventComposer(logger)
	dispatcher := services.NewWebhookDispatcher(webhookRepo, cfg.WebhookTimeout, logger)

	// Downstream fan-out is best effort: each subscriber failure is logged
	// and isolated, never escalated into an order-processing error.
	var subscribers []services.Subscriber
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrderEventsTopic)
		defer producer.Close()
		subscribers = append(subscribers, services.NewPublisherSubscriber("kafka", producer))
	}
	if cfg.SNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Warn("AWS config unavailable, SNS subscriber disabled", zap.Error(err))
		} else {
			snsClient := aws_pkg.NewSNSClient(awsCfg, cfg.SNSTopicARN)
			subscribers = append(subscribers, services.NewPublisherSubscriber("sns", snsClient))
		}
	}

	completionService := services.NewCompletionService(
		orderRepo,
		productRepo,
		webhookRepo,
		revenueService,
		accessService,
		composer,
		dispatcher,
		subscribers,
		logger,
	)
	orderService := services.NewOrderService(orderRepo, productRepo, accessRepo, logger)

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r,
		controllers.NewOrderController(orderService),
		controllers.NewConfirmationController(completionService, logger),
		controllers.NewWebhookController(webhookRepo, dispatcher),
	)

	logger.Info("Checkout service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] Server failed:", err)
	}
}
