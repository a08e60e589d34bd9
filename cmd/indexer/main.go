package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/doki-web/config"
	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

// indexer copies the public package catalog into the search index.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch: %v", err)
	}
	if es == nil {
		log.Fatal("ELASTICSEARCH_ADDRS is empty, nothing to index")
	}

	client := apiclient.New(cfg.BackendBaseURL,
		apiclient.WithTimeout(cfg.BackendTimeout),
		apiclient.WithLogger(logger),
	)
	svc := application.NewCatalogService(backend.New(client), es, cfg.ESPackagesIndex, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	n, err := svc.Reindex(ctx)
	if err != nil {
		log.Fatalf("reindex stopped after %d packages: %v", n, err)
	}
	fmt.Printf("indexed %d packages into %q\n", n, cfg.ESPackagesIndex)
}
