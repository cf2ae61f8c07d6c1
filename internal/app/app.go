// Package app wires storage, cache, service and transports into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/stock-service/internal/adapter/handler"
	"github.com/rl1809/stock-service/internal/adapter/handler/pb"
	"github.com/rl1809/stock-service/internal/adapter/storage"
	"github.com/rl1809/stock-service/internal/config"
	"github.com/rl1809/stock-service/internal/core/service"
	"github.com/rl1809/stock-service/internal/port"
)

type App struct {
	cfg config.Config
	log *logrus.Logger

	db  *storage.SQLAdapter
	rdb *redis.Client

	inventory *service.InventoryService

	httpServer *http.Server
	httpLis    net.Listener
	grpcServer *grpc.Server
	grpcLis    net.Listener
	health     *health.Server
}

// New connects to the database (and Redis when configured) and binds both
// listeners. Call Run to serve, or Close to release everything.
func New(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, error) {
	pricer, err := cfg.Pricing.Pricer()
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}

	a := &App{cfg: cfg, log: log}

	a.db, err = storage.OpenSQL(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("connected to database")

	var cache port.CacheRepository = storage.NopCache{}
	if cfg.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		cache = storage.NewRedisAdapter(a.rdb)
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	} else {
		log.Info("redis not configured, demand cache and idempotency keys disabled")
	}

	a.inventory = service.NewInventoryService(a.db, cache, pricer, log)

	a.httpServer = &http.Server{
		Handler:           traceHTTP(handler.NewRouter(handler.NewHTTPHandler(a.inventory, log))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	pb.RegisterInventoryServiceServer(a.grpcServer, handler.NewGRPCHandler(a.inventory, log))
	a.health = health.NewServer()
	grpc_health_v1.RegisterHealthServer(a.grpcServer, a.health)
	a.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	a.health.SetServingStatus(pb.InventoryService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if a.httpLis, err = net.Listen("tcp", cfg.HTTPAddr); err != nil {
		a.Close()
		return nil, fmt.Errorf("listen http on %s: %w", cfg.HTTPAddr, err)
	}
	if a.grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
		a.Close()
		return nil, fmt.Errorf("listen grpc on %s: %w", cfg.GRPCAddr, err)
	}

	return a, nil
}

func traceHTTP(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
}

func (a *App) HTTPAddr() string { return a.httpLis.Addr().String() }

func (a *App) GRPCAddr() string { return a.grpcLis.Addr().String() }

// Run serves HTTP and gRPC until ctx is cancelled or either server fails,
// then shuts both down and closes the connections.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.WithField("addr", a.HTTPAddr()).Info("HTTP server listening")
		if err := a.httpServer.Serve(a.httpLis); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.log.WithField("addr", a.GRPCAddr()).Info("gRPC server listening")
		if err := a.grpcServer.Serve(a.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.shutdown()
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	a.log.Info("shutting down...")
	a.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.WithError(err).Warn("HTTP server shutdown")
	}
	a.log.Info("HTTP server stopped")

	stopped := make(chan struct{})
	go func() {
		a.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		a.grpcServer.Stop()
	}
	a.log.Info("gRPC server stopped")
}

// Close releases listeners and connections. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	if a.httpLis != nil {
		a.httpLis.Close()
	}
	if a.grpcLis != nil {
		a.grpcLis.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
		a.rdb = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
		a.db = nil
	}
	return errors.Join(errs...)
}
