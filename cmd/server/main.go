package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/RishiReddii/AgreementHub/internal/engine"
	"github.com/RishiReddii/AgreementHub/internal/store"
	"github.com/RishiReddii/AgreementHub/pkg/db"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer closeStore()

	eng := engine.New(st, logger)
	router := newRouter(&api{eng: eng}, logger)

	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// openStore picks the backend from the environment: MONGO_URL wins, then
// DATABASE_URL, then the in-memory store for zero-config development.
func openStore(ctx context.Context, logger *zap.Logger) (store.Store, func(), error) {
	if uri := os.Getenv("MONGO_URL"); uri != "" {
		name := os.Getenv("MONGO_DB")
		if name == "" {
			name = "agreementhub"
		}
		m, err := store.NewMongo(ctx, uri, name)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using mongo store", zap.String("database", name))
		return m, func() { _ = m.Close(context.Background()) }, nil
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		p := store.NewPostgres(pool)
		if err := p.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("using postgres store")
		return p, pool.Close, nil
	}
	logger.Warn("no MONGO_URL or DATABASE_URL set, using in-memory store")
	return store.NewMemory(), func() {}, nil
}
