package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/openfleet/convoy/convoy"
	"github.com/openfleet/convoy/convoy/policy"
	"github.com/openfleet/convoy/convoy/sim"
	"github.com/openfleet/convoy/convoy/telemetry"
)

func main() {
	// .env is optional; flags override environment overrides defaults.
	_ = godotenv.Load()

	var (
		agentID     = flag.String("agent-id", "Agent_1", "identity announced in status broadcasts")
		keyFile     = flag.String("key-file", getEnv("CONVOY_KEY_FILE", ""), "telemetry key file (generated on first use)")
		port        = flag.Int("port", getEnvInt("CONVOY_PORT", telemetry.DefaultPort), "preferred telemetry port")
		interval    = flag.Duration("interval", telemetry.DefaultInterval, "status broadcast interval")
		agents      = flag.Int("agents", 15, "number of simulated agents")
		mapName     = flag.String("map", "city", "named map layout")
		layoutsFile = flag.String("layouts", "", "YAML file with additional map layouts")
		horizon     = flag.Int("horizon", 2000, "steps per episode")
		episodes    = flag.Int("episodes", 0, "stop after this many episodes (0 = run until interrupted)")
		seed        = flag.Int64("seed", 0, "demo driver seed")
	)
	flag.Parse()

	layouts := sim.Layouts
	if *layoutsFile != "" {
		var err error
		if layouts, err = sim.LoadLayouts(*layoutsFile); err != nil {
			log.Fatalf("[System] %v", err)
		}
	}
	layout, ok := layouts[*mapName]
	if !ok {
		layout = sim.Layout(*mapName)
	}
	log.Printf("[System] map %s: %s", *mapName, sim.DecodeLayout(layout))

	// Port choice happens once, before the receiver binds.
	chosen, err := telemetry.ProbePort(*port, telemetry.FallbackPort)
	if err != nil {
		log.Fatalf("[System] %v", err)
	}
	if chosen != *port {
		log.Printf("[Warning] port %d already in use, switching to %d", *port, chosen)
	}

	node, err := convoy.NewNode(*agentID, *keyFile, chosen, *interval, func(msg telemetry.StatusMessage) {
		log.Printf("[Receiver] received: %s", msg)
	})
	if err != nil {
		log.Fatalf("[System] %v", err)
	}
	log.Printf("[System] telemetry up on 127.0.0.1:%d", node.Port())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := node.Run(ctx); err != nil {
			log.Printf("[System] telemetry stopped: %v", err)
			stop()
		}
	}()

	driver := newDemoDriver(*agents, *horizon, *seed)
	defer driver.Close()

	runner := sim.NewRunner(driver, policy.NewSafetyPolicy())
	runner.MaxEpisodes = *episodes

	log.Printf("[System] starting simulation: %d agents, collision avoidance enabled", *agents)
	stats, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("[System] %v", err)
	}
	for _, ep := range stats {
		log.Printf("[System] %s", ep.Summary())
	}
	log.Println("[System] simulation ended cleanly")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
