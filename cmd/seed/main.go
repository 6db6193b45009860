package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/catalog"
	"surveyflow/internal/config"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
	"surveyflow/internal/service"
)

// Seeds a catalog owned by the configured host account. Uses CATALOG_PATH when
// set, the built-in sample otherwise.
func main() {
	cfg := config.Load()

	var c *model.Catalog
	if cfg.CatalogPath != "" {
		idx, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		c = idx.Catalog()
	} else {
		c = catalog.Sample()
		c.Title = "Sample survey"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewCatalogRepo(client.Database(cfg.MongoDB))
	svc := service.NewCatalogService(repo, catalog.MustSample())

	hostID := service.HostIDFor(cfg.HostUsername)
	id, err := svc.Create(ctx, hostID, c)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Printf("Seeded catalog %q for host %s", c.Title, hostID)
	log.Printf("Catalog ID: %s", id)
	log.Printf("Start a session: POST /v1/catalogs/%s/sessions", id)
}
