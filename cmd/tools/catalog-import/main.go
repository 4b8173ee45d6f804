// cmd/tools/catalog-import/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"supplement-workers/internal/catalog"
	"supplement-workers/internal/common/config"
	"supplement-workers/internal/common/database"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml)")
	dataset := flag.String("dataset", "", "Dataset file to import (.json, .yaml)")
	skipIndex := flag.Bool("skip-index", false, "Do not refresh the Elasticsearch index")
	validateOnly := flag.Bool("validate", false, "Only validate the dataset")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := *dataset
	if path == "" {
		path = cfg.Catalog.DatasetPath
	}

	if *validateOnly {
		ds, err := catalog.LoadDataset(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Dataset %s is valid: %d supplements, %d protocols\n", path, len(ds.Supplements), len(ds.Protocols))
		return
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := run(ctx, cfg, log, path, *skipIndex)
	if err != nil {
		log.Error("catalog import failed", map[string]interface{}{"path": path, "error": err})
		os.Exit(1)
	}
	fmt.Printf("Imported catalog %s: %d supplements, %d protocols, %d indexed\n",
		res.Version, res.Supplements, res.Protocols, res.Indexed)
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, path string, skipIndex bool) (*catalog.ImportResult, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return nil, err
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return nil, err
	}
	defer rdb.Close()

	var indexer catalog.SearchIndexer
	if !skipIndex {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		indexer = catalog.NewIndexer(es.Client, cfg.Catalog.SearchIndex)
	}

	writer := store.NewCatalogStore(pg.DB, rdb.Client, cfg.Catalog.CacheTTL(), log)
	return catalog.NewImporter(writer, indexer, log).Import(ctx, path, skipIndex)
}
