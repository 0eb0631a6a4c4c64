package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/config"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/logging"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}
	cfg.Environment = *env

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: false,
		Environment:   cfg.Environment,
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	jwtSigningKey := os.Getenv("WORKOUT_API_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		if strings.HasPrefix(strings.ToLower(*env), "prod") {
			log.Fatalf("jwt signing key not set, use WORKOUT_API_JWT_SIGNING_KEY env var to set it")
		}
		log.Errorf("jwt signing key not set, using a random one, all tokens die with this process")
		jwtSigningKey, err = pkg.GenerateRandomString(64)
		if err != nil {
			log.Fatalf("generate fallback jwt signing key: %s", err)
		}
	}

	redisPassword := os.Getenv("WORKOUT_API_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use WORKOUT_API_REDIS_PASS")
	}

	tracingEnabled := os.Getenv("OTEL_TRACING_ENABLED") == "true"
	if tracingEnabled {
		if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	} else {
		log.Debugln("otel tracing disabled")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:         cfg,
			JWTSigningKey:  []byte(jwtSigningKey),
			RedisPassword:  redisPassword,
			VersionInfo:    versionInfo,
			TracingEnabled: tracingEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
