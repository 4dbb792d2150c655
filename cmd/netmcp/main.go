// netmcp - network device inventory service
//
// This is the main entry point for netmcp. It serves an in-memory device
// inventory over a REST listing endpoint and an MCP envelope endpoint, and
// publishes device change events to WebSocket clients, MQTT and InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nerrad567/netmcp/internal/api"
	"github.com/nerrad567/netmcp/internal/device"
	"github.com/nerrad567/netmcp/internal/infrastructure/config"
	"github.com/nerrad567/netmcp/internal/infrastructure/influxdb"
	"github.com/nerrad567/netmcp/internal/infrastructure/logging"
	"github.com/nerrad567/netmcp/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// defaultConfigPath is used when neither --config nor NETMCP_CONFIG is set
	// and the file exists.
	defaultConfigPath = "configs/config.yaml"

	configEnvVar = config.EnvPrefix + "CONFIG"
)

// options are the command line flags.
type options struct {
	configPath  string
	showVersion bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("netmcp %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the command line. Usage and errors are written to output.
func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("netmcp", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (env "+configEnvVar+")")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(output, "Error: %v\nUsage of netmcp:\n%s", err, fs.FlagUsages())
		}
		return options{}, err
	}
	return opts, nil
}

// run is the application logic, separated from main for testability.
// It blocks until ctx is cancelled and returns nil on clean shutdown.
func run(ctx context.Context, opts options) error {
	log := logging.Default()
	log.Info("starting netmcp",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := resolveConfigPath(opts.configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	devices, source, err := loadInventory(cfg.Inventory)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	store, err := device.NewStore(devices)
	if err != nil {
		return fmt.Errorf("building inventory: %w", err)
	}
	store.SetLogger(log.Component("inventory"))
	log.Info("inventory loaded", "source", source, "devices", store.Count())

	mqttClient := connectMQTT(ctx, cfg.MQTT, log)
	defer func() {
		if mqttClient == nil {
			return
		}
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()

	influxClient := connectInfluxDB(ctx, cfg.InfluxDB, log)
	defer func() {
		if influxClient == nil {
			return
		}
		log.Info("closing InfluxDB connection")
		if closeErr := influxClient.Close(); closeErr != nil {
			log.Error("error closing InfluxDB", "error", closeErr)
		}
	}()
	if influxClient != nil {
		stats := store.Stats()
		byStatus := make(map[string]int, len(stats.ByStatus))
		for status, n := range stats.ByStatus {
			byStatus[string(status)] = n
		}
		influxClient.WriteInventorySnapshot(stats.Total, byStatus)
	}

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Store:    store,
		MQTT:     mqttClient,
		InfluxDB: influxClient,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("netmcp ready", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	<-ctx.Done()
	log.Info("shutdown signal received")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	return nil
}

// resolveConfigPath picks the config file: the flag, then NETMCP_CONFIG,
// then configs/config.yaml if it exists. An empty result means defaults only.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if path := os.Getenv(configEnvVar); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// loadInventory returns the seed devices and a description of their source.
func loadInventory(cfg config.InventoryConfig) ([]device.Device, string, error) {
	if cfg.SeedFile == "" {
		return device.SampleDevices(), "built-in", nil
	}
	devices, err := device.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, "", err
	}
	return devices, cfg.SeedFile, nil
}

// connectMQTT connects the optional event publisher. Connection failures
// are logged and the service runs without MQTT events.
func connectMQTT(ctx context.Context, cfg config.MQTTConfig, log *logging.Logger) *mqtt.Client {
	client, err := mqtt.Connect(cfg)
	switch {
	case errors.Is(err, mqtt.ErrDisabled):
		log.Info("MQTT disabled")
		return nil
	case err != nil:
		log.Warn("MQTT unavailable, device events will not be published", "error", err)
		return nil
	}

	client.SetLogger(log.Component("mqtt"))
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
	)
	if err := client.HealthCheck(ctx); err != nil {
		log.Warn("MQTT health check failed", "error", err)
	}
	return client
}

// connectInfluxDB connects the optional change history writer.
func connectInfluxDB(ctx context.Context, cfg config.InfluxDBConfig, log *logging.Logger) *influxdb.Client {
	client, err := influxdb.Connect(cfg)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
		return nil
	case err != nil:
		log.Warn("InfluxDB unavailable, change history will not be recorded", "error", err)
		return nil
	}

	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.URL,
		"org", cfg.Org,
		"bucket", cfg.Bucket,
	)
	if err := client.HealthCheck(ctx); err != nil {
		log.Warn("InfluxDB health check failed", "error", err)
	}
	return client
}
