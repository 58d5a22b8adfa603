package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/ontology"
	"github.com/dengue-kg/backend/internal/references"
	"github.com/dengue-kg/backend/pkg/config"
	appLogger "github.com/dengue-kg/backend/pkg/logger"
)

// Seed-data loader: extracts citation records from source documents and terms
// from OBO ontology files, then merges them into the graph. Safe to re-run;
// both loaders key their merges on the natural identifier.
func main() {
	var refDocs stringList
	var oboFiles stringList
	flag.Var(&refDocs, "refs", "source document to extract references from (repeatable)")
	flag.Var(&oboFiles, "obo", "OBO ontology file to load (repeatable)")
	flag.Parse()

	if len(refDocs) == 0 && len(oboFiles) == 0 {
		fmt.Println("Nothing to load: pass -refs and/or -obo")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	graphClient, err := graph.NewClient(ctx, cfg.Neo4j)
	if err != nil {
		appLogger.Fatal("Failed to create graph client", zap.Error(err))
	}
	defer graphClient.Close(ctx)

	// One loader for the whole invocation so REF_<n> ids stay one sequence
	// across documents.
	refLoader := references.NewLoader(graphClient)
	for _, path := range refDocs {
		loadReferences(ctx, refLoader, path)
	}

	for _, path := range oboFiles {
		loadOntology(ctx, graphClient, path)
	}
}

func loadReferences(ctx context.Context, loader *references.Loader, path string) {
	file, err := os.Open(path)
	if err != nil {
		appLogger.Error("Failed to open reference document", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	docSource := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	refs, err := references.Extract(file, docSource)
	if err != nil {
		appLogger.Error("Failed to extract references", zap.String("path", path), zap.Error(err))
		return
	}
	if len(refs) == 0 {
		appLogger.Warn("No references extracted from document", zap.String("path", path))
		return
	}

	created, err := loader.Load(ctx, refs)
	if err != nil {
		appLogger.Error("Failed to load references", zap.String("path", path), zap.Error(err))
		return
	}

	appLogger.Info("Reference document loaded",
		zap.String("path", path),
		zap.Int("extracted", len(refs)),
		zap.Int("created", created),
	)
}

func loadOntology(ctx context.Context, store graph.Executor, path string) {
	file, err := os.Open(path)
	if err != nil {
		appLogger.Error("Failed to open ontology file", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	terms, err := ontology.ParseOBO(file, source)
	if err != nil {
		appLogger.Error("Failed to parse ontology file", zap.String("path", path), zap.Error(err))
		return
	}

	created, err := ontology.NewLoader(store).Load(ctx, terms)
	if err != nil {
		appLogger.Error("Failed to load ontology terms", zap.String("path", path), zap.Error(err))
		return
	}

	appLogger.Info("Ontology file loaded",
		zap.String("path", path),
		zap.Int("parsed", len(terms)),
		zap.Int("created", created),
	)
}

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
