// objgw - Object Gateway
//
// This is the main entry point for the object gateway. The gateway exposes a
// device-oriented query layer over a flat object/state namespace through a
// uniform RPC surface, reachable over HTTP, WebSocket, and optionally MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-objgw/internal/api"
	"github.com/nerrad567/gray-logic-objgw/internal/classify"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-objgw/internal/objstore/sqlitestore"
	"github.com/nerrad567/gray-logic-objgw/internal/query"
	"github.com/nerrad567/gray-logic-objgw/internal/rpc"
	"github.com/nerrad567/gray-logic-objgw/internal/rpc/mqttrpc"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting object gateway",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the object store
	store, err := sqlitestore.Open(ctx, sqlitestore.Config{
		Path:        cfg.Store.Path,
		WALMode:     cfg.Store.WALMode,
		BusyTimeout: cfg.Store.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening object store: %w", err)
	}
	defer func() {
		log.Info("closing object store")
		if closeErr := store.Close(); closeErr != nil {
			log.Error("error closing object store", "error", closeErr)
		}
	}()
	log.Info("object store opened", "path", cfg.Store.Path)

	// Build the query executor and RPC dispatcher
	executor := query.New(store, classify.NewRoleClassifier(), cfg.Locale.Language, cfg.Locale.Fallback)
	dispatcher := rpc.New(executor, log)
	log.Info("rpc dispatcher ready", "methods", dispatcher.Methods())

	// Connect the InfluxDB state-write mirror (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		executor.SetMirror(influxClient)
		log.Info("InfluxDB mirror connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB mirror disabled")
	}

	// Connect MQTT and start the RPC bridge (optional)
	var mqttClient *mqtt.Client
	var bridge *mqttrpc.Bridge
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.With("component", "mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// #nosec G115 -- qos validated to 0..2 by config.Validate
		bridge, err = mqttrpc.New(dispatcher, mqttClient, mqttClient.TopicFor(), byte(cfg.MQTT.QoS), log)
		if err != nil {
			return fmt.Errorf("creating MQTT RPC bridge: %w", err)
		}
		if startErr := bridge.Start(ctx); startErr != nil {
			return fmt.Errorf("starting MQTT RPC bridge: %w", startErr)
		}
		defer func() {
			log.Info("stopping MQTT RPC bridge")
			bridge.Stop()
		}()
	} else {
		log.Info("MQTT RPC bridge disabled")
	}

	// Start the HTTP/WebSocket API server
	apiServer, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Dispatcher: dispatcher,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"ws_path", cfg.WebSocket.Path,
	)

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. MQTT bridge, then MQTT client (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Object store

	log.Info("object gateway stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses the OBJGW_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OBJGW_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies optional infrastructure connections are healthy.
// Clients that are disabled in config arrive as nil and are skipped; the
// object store was already pinged by Open.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
