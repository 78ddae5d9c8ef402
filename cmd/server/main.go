package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	myHTTP "github.com/MKhiriev/go-data-gateway/internal/handler/http"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/server"
	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/internal/webhook"
	"github.com/MKhiriev/go-data-gateway/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-data-gateway")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	dispatcher := webhook.NewDispatcher(storages.Webhooks, cfg.Webhooks, log)
	services := service.NewServices(storages, cfg, dispatcher, log)
	handler := myHTTP.NewHandler(services, log)

	srv, err := server.NewServer(handler.Init(), workers.NewWorkers(dispatcher), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
