package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/armando/shop-api/internal/adapter/handler"
	"github.com/armando/shop-api/internal/adapter/storage"
	"github.com/armando/shop-api/internal/config"
	"github.com/armando/shop-api/internal/core/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		slog.Error("failed to open mysql", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to ping mysql", "err", err)
		os.Exit(1)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", "err", err)
		os.Exit(1)
	}
	slog.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis", "err", err)
		os.Exit(1)
	}
	slog.Info("connected to redis")

	// Adapters
	orderStore := storage.NewMySQLOrderStore(db)
	catalog := storage.NewMySQLCatalog(db)
	users := storage.NewMySQLUsers(db)
	blacklist := storage.NewRedisAdapter(rdb)

	// Services
	authService := service.NewAuthService(users, blacklist, []byte(cfg.JWTSecret), cfg.TokenTTL)
	productService := service.NewProductService(catalog)
	orderService := service.NewOrderService(orderStore, users)

	router := handler.NewRouter(authService, productService, orderService)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("http server error", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "err", err)
	}

	rdb.Close()
	db.Close()
	slog.Info("connections closed")
}
