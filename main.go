package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osamagivegh-hash/booking4u-sub002/global/config"
	"github.com/osamagivegh-hash/booking4u-sub002/logger"
	"github.com/osamagivegh-hash/booking4u-sub002/service/identity"
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay"
	"github.com/osamagivegh-hash/booking4u-sub002/service/relay/handlers"
	"github.com/osamagivegh-hash/booking4u-sub002/service/storage"
	"github.com/osamagivegh-hash/booking4u-sub002/tools/ids"
)

func main() {
	cfg := config.Load()
	ids.SetNodeID(cfg.NodeID)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	cancel()
	if err != nil {
		logger.Fatalf("mongo connect failed: %v", err)
	}
	dir := identity.NewMongoDirectory(client.Database(cfg.Mongo.Database), cfg.Mongo.UserCollection)

	var mirror *storage.PresenceMirror
	if cfg.Redis.Addr != "" {
		mirror, err = storage.NewPresenceMirror(storage.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.PresenceTTL)
		if err != nil {
			logger.Warnf("presence mirror disabled: %v", err)
			mirror = nil
		}
	}

	gin.SetMode(gin.ReleaseMode)
	s := relay.NewServer(cfg, dir, mirror)
	handlers.RegisterAll(s)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: s.Engine()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server failed: %v", err)
		}
	}()
	logger.Infof("relay listening on %s", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	_ = client.Disconnect(shCtx)
	if mirror != nil {
		_ = mirror.Close()
	}
	logger.Info("relay stopped")
}
