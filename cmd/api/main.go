package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"namegen-api/internal/credentials"
	"namegen-api/internal/database"
	"namegen-api/internal/handlers/generate"
	"namegen-api/internal/history"
	"namegen-api/internal/middleware"
	"namegen-api/internal/pipeline"
	"namegen-api/internal/providers"
	"namegen-api/internal/ratelimit"
	"namegen-api/internal/routers"
	"namegen-api/internal/shared"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Flags / ENV Variables
	listen := flag.String("listen", ":80", "Listen address")
	debug := flag.Bool("debug", false, "Debug enabled")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")

	provider := flag.String("provider", shared.ProviderGemini, "Generation provider (gemini, openai)")
	geminiAPIKey := flag.String("gemini-api-key", "", "Gemini API key")
	geminiAPIKeySecret := flag.String("gemini-api-key-secret", "", "Secret Manager version holding the Gemini API key")
	geminiModel := flag.String("gemini-model", shared.DefaultGeminiModel, "Gemini model")
	openAIEndpoint := flag.String("openai-endpoint", "", "OpenAI compatible chat completions URL")
	openAIAPIKey := flag.String("openai-api-key", "", "OpenAI compatible API key")
	openAIModel := flag.String("openai-model", "", "OpenAI compatible model")
	generationTimeout := flag.Duration("generation-timeout", shared.DefaultGenerationTimeout, "Bound on each provider call")

	redisAddr := flag.String("redis-addr", "", "Redis host:port, enables rate limiting")
	rateLimitRPM := flag.Int64("rate-limit-rpm", shared.DefaultRateLimitRPM, "Requests per minute per client, 0 disables")
	writeDSN := flag.String("dsn", "", "MySQL DSN, enables generation history")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()
	defer func() {
		_ = log.Sync()
	}()

	instanceID := uuid.New().String()
	log = log.With("instance_id", instanceID)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Credential is resolved once; its value is never logged
	credSource := credentials.Source{Value: *geminiAPIKey, SecretName: *geminiAPIKeySecret}
	geminiKey, err := credentials.Resolve(startupCtx, credSource)
	if err != nil {
		panic(fmt.Sprintf("failed resolving gemini credential: %s", err))
	}
	if *provider == shared.ProviderGemini && geminiKey == "" {
		log.Warnw("Gemini credential not configured, generations will fail", "env", shared.GeminiAPIKeyEnvName)
	}
	log.Infow("Credential source", "mechanism", credSource.Mechanism())

	client, err := providers.New(startupCtx, providers.Config{
		Provider: *provider,
		Gemini:   providers.GeminiConfig{APIKey: geminiKey, Model: *geminiModel},
		OpenAI: providers.OpenAIConfig{
			Endpoint: *openAIEndpoint,
			APIKey:   *openAIAPIKey,
			Model:    *openAIModel,
		},
	})
	if err != nil {
		panic(err)
	}

	routeCfg := routers.GenerateRouterConfig{
		Pipeline:   pipeline.New(client, pipeline.WithTimeout(*generationTimeout)),
		Provider:   client.Name(),
		InstanceID: instanceID,
	}

	// Load Redis connection
	var redisClient *redis.Client
	if *redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			Password: "",
			DB:       0,
		})
		if err := redisClient.Ping(startupCtx).Err(); err != nil {
			panic(fmt.Sprintf("failed ping to redis db: %s", err))
		}
		routeCfg.Limiter = ratelimit.NewRedisLimiter(redisClient, *rateLimitRPM, shared.RateLimitWindow)
		log.Infow("Rate limiting enabled", "rpm", *rateLimitRPM)
	}

	// Write DB init
	var writeDB *sql.DB
	var recorder *history.Recorder
	if *writeDSN != "" {
		writeDB, err = sql.Open("mysql", *writeDSN)
		if err != nil {
			panic(fmt.Sprintf("failed initializing sqlClient: %s", err))
		}
		err = writeDB.PingContext(startupCtx)
		if err != nil {
			panic(fmt.Sprintf("failed ping to sql db: %s", err))
		}
		recorder = history.NewRecorder(database.NewStore(writeDB), log)
		routeCfg.Recorder = generate.Recorder(recorder)
		log.Info("Generation history enabled")
	}

	defer func() {
		if recorder != nil {
			recorder.Shutdown()
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if writeDB != nil {
			_ = writeDB.Close()
		}
	}()

	e := routers.NewEcho(log)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.RequireAPIKey(*metricsAPIKey))
	routers.RegisterGenerateRoutes(e, routeCfg)

	go func() {
		if err := e.Start(*listen); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	log.Infow("Server started", "listen", *listen, "provider", client.Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorw("Failed graceful shutdown", "error", err)
	}
}
