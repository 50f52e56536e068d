//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/AleeDevp/italihub-app-sub003/internal/app"
	"github.com/AleeDevp/italihub-app-sub003/internal/broker"
	"github.com/AleeDevp/italihub-app-sub003/internal/config"
	"github.com/AleeDevp/italihub-app-sub003/internal/http"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/controller"
	"github.com/AleeDevp/italihub-app-sub003/internal/logging"
	"github.com/AleeDevp/italihub-app-sub003/internal/metrics"
	"github.com/AleeDevp/italihub-app-sub003/internal/queue/rabbitmq"
	"github.com/AleeDevp/italihub-app-sub003/internal/service/notify"
	"github.com/AleeDevp/italihub-app-sub003/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewStore,
		broker.New,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
