package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"barback/internal/cache"
	"barback/internal/config"
	"barback/internal/database"
	custommiddleware "barback/internal/middleware"
	"barback/internal/repository"
	"barback/internal/service"
	"barback/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(db))
	})

	// Initialize repositories
	txRunner := repository.NewTxRunner(db)
	productRepo := repository.NewProductRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize cache
	productCache := cache.NewNopCache()
	if redisClient != nil {
		productCache = cache.NewRedisCache(redisClient)
	}

	// Initialize services
	coordinator := service.NewTransactionCoordinator(txRunner, movementRepo, saleRepo, logger, service.CoordinatorOptions{
		CompensateReversals: cfg.Ledger.CompensateReversals,
	})
	financeService := service.NewFinanceService(ledgerRepo, logger)
	catalogService := service.NewCatalogService(productRepo, productCache, logger)
	staffService := service.NewStaffService(employeeRepo, logger)

	// Register routes
	transport.NewSaleHandler(coordinator, logger).RegisterRoutes(router)
	transport.NewStockHandler(coordinator, logger).RegisterRoutes(router)
	transport.NewFinanceHandler(financeService, logger).RegisterRoutes(router)
	transport.NewProductHandler(catalogService, logger).RegisterRoutes(router)
	transport.NewEmployeeHandler(staffService, logger).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
