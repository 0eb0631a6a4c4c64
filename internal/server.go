package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/config"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/db"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/middleware"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/metrics"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/users"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/exercises"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/musclegroups"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/plans"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/progress"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/sessions"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

const blacklistCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client
	authService *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config         *config.Config
	JWTSigningKey  []byte
	RedisPassword  string
	VersionInfo    string
	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.InitSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("init db schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("workout_plan_api", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(
		params.JWTSigningKey,
		time.Duration(params.Config.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(params.Config.RefreshTokenTTLHours)*time.Hour,
		auth.NewBlacklistRepo(dbPool),
	)
	go func() {
		for range time.Tick(blacklistCleanupInterval) {
			authService.ScanAndClean(ctx)
		}
	}()

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: authService,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, fmt.Sprintf("workout plan api, version: %s", s.versionInfo))
	}).Methods("GET", "OPTIONS").Name("root")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	credentialsRateLimit := middleware.RateLimit(
		reqRateLimiter,
		"credentials",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	)

	usersHandler := users.NewHandler(
		users.NewRepo(s.dbPool),
		s.authService,
		s.metricsManager,
	)
	usersHandler.SetupRoutes(r.PathPrefix("/user").Subrouter(), credentialsRateLimit)

	// reference data: read for anyone authenticated, write for staff
	muscleGroupsRouter := r.PathPrefix("/workout/muscle_groups").Subrouter()
	muscleGroupsRouter.Use(middleware.RequirePolicy(auth.AdminOrReadOnly))
	musclegroups.NewHandler(musclegroups.NewRepo(s.dbPool)).SetupRoutes(muscleGroupsRouter)

	exercisesRouter := r.PathPrefix("/workout/exercises").Subrouter()
	exercisesRouter.Use(middleware.RequirePolicy(auth.AdminOrReadOnly))
	exercises.NewHandler(exercises.NewRepo(s.dbPool)).SetupRoutes(exercisesRouter)

	// personal resources: owner-scoped in the repos themselves
	plansRepo := plans.NewRepo(s.dbPool)
	plans.NewHandler(plansRepo).
		SetupRoutes(r.PathPrefix("/workout/workout_plan").Subrouter())
	plans.NewPlanExerciseHandler(plans.NewPlanExerciseRepo(s.dbPool)).
		SetupRoutes(r.PathPrefix("/workout/workout_plan_exercise").Subrouter())
	sessions.NewHandler(sessions.NewRepo(s.dbPool)).
		SetupRoutes(r.PathPrefix("/workout/workout_session").Subrouter())
	progress.NewHandler(progress.NewRepo(s.dbPool)).
		SetupRoutes(r.PathPrefix("/workout/progress").Subrouter())

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Sub(1)
	}
}
