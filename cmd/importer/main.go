package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"productdesk/internal/config"
	"productdesk/internal/db"
	"productdesk/internal/importer"
	productrepo "productdesk/internal/repository/product"
	productsvc "productdesk/internal/service/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a CSV file with name,price,description columns")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productsvc.New(productrepo.NewPostgres(pool, logger)))

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", res.Imported, err)
	}
	for _, skipped := range res.Skipped {
		logger.Printf("skipped %v", skipped)
	}

	fmt.Printf("Imported %d products (%d skipped) in %s\n", res.Imported, len(res.Skipped), time.Since(start).Truncate(time.Millisecond))
}
