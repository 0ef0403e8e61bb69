package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lpernett/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/engine"
	"github.com/Deskmate-Labs/deskmate-go-core/handlers"
	"github.com/Deskmate-Labs/deskmate-go-core/models"
	"github.com/Deskmate-Labs/deskmate-go-core/skills"
)

// Load environment variables from .env file
func init() {
	log.Info("Loading environment variables")
	err := godotenv.Load()
	if err != nil {
		log.Warn("Error loading .env file")
	}
}

// logNotifier receives timer events for the sessionless /process endpoint,
// where there is no client socket to push to.
type logNotifier struct{}

func (logNotifier) Notify(event models.TimerEvent) {
	zap.L().Info("Timer finished", zap.Duration("duration", event.Duration))
}

func main() {
	// Set up logging
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	log.Info("Deskmate assistant core starting")

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// Set up Redis connection
	redisClient := redis.NewClient(&redis.Options{
		Addr:        os.Getenv("REDIS_HOST"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          0,
		DialTimeout: 20 * time.Second, // initial connection timeout
	})

	redisCtx, cancelRedis := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelRedis()

	if _, err := redisClient.Ping(redisCtx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Successfully connected to Redis")

	// Shared collaborators; the dispatch core reaches them only through its
	// injected interfaces.
	deps := handlers.SessionDeps{
		Config: engineConfigFromEnv(),
		Store:  skills.NewProductivityStore(redisClient),
		Music:  skills.NewMusicQueue(),
		System: skills.NewSystemControl(),
		Apps:   skills.NewAppLauncher(),
		Web:    skills.NewWebSkill(),
	}

	// Dispatcher for the plain HTTP endpoint; sessions build their own so
	// timer notifications reach the right socket.
	httpDispatcher := engine.NewDispatcher(deps.Config, engine.Collaborators{
		Scheduler: deps.Store,
		Media:     deps.Music,
		System:    deps.System,
		Web:       deps.Web,
		Apps:      deps.Apps,
		Timers:    skills.NewTimerSkill(logNotifier{}),
	})

	// Define HTTP routes
	http.HandleFunc("/healthz", handlers.HealthCheckHandler)
	http.HandleFunc("/process", handlers.CommandHandler(httpDispatcher))
	http.HandleFunc("/assistant", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleAssistantSession(w, r, redisClient, deps)
	})

	// Set up signal handling
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverExit := make(chan struct{})

	// Start HTTP server in a goroutine
	go func() {
		port := ":" + os.Getenv("PORT")
		if port == ":" {
			port = ":8080"
		}
		log.Info("Starting server on ", port)
		log.Fatal(http.ListenAndServe(port, nil))
		close(serverExit)
	}()

	// On termination, close all connections and shut down the server
	select {
	case <-stop:
		log.Info("Shutting down server...")
	case <-serverExit:
		log.Info("Server exited unexpectedly...")
	}

	log.Info("Server shut down gracefully")
}

// engineConfigFromEnv starts from the defaults and applies the threshold
// overrides, keeping the tuning knobs out of the source.
func engineConfigFromEnv() engine.Config {
	cfg := engine.DefaultConfig()
	if v := os.Getenv("ASSISTANT_INTENT_FLOOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.IntentFloor = f
		} else {
			log.Warnf("Ignoring invalid ASSISTANT_INTENT_FLOOR: %v", v)
		}
	}
	if v := os.Getenv("ASSISTANT_ACTION_GATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ActionGate = f
		} else {
			log.Warnf("Ignoring invalid ASSISTANT_ACTION_GATE: %v", v)
		}
	}
	return cfg
}
