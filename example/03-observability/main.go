// Package main traces a computation and prints the recorded metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
	"github.com/felixgeelhaar/shapley-go/infrastructure/observability"
	shapley "github.com/felixgeelhaar/shapley-go/interfaces/api"
)

func main() {
	ctx := context.Background()

	logging.Init(logging.Config{Level: "debug", Format: "json", Output: os.Stderr})

	obs, err := shapley.NewObservability(
		observability.WithServiceName("shapley-example"),
		observability.WithStdoutTracing(os.Stderr),
		observability.WithMetrics(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := obs.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	metricsCfg := shapley.DefaultMetricsConfig()
	metricsCfg.Provider = obs.MeterProvider()

	engine, err := shapley.New(
		shapley.WithTracer(obs.Tracer()),
		shapley.WithMetrics(shapley.NewMetricsProvider(metricsCfg)),
	)
	if err != nil {
		log.Fatal(err)
	}

	agents := []*shapley.Agent{
		shapley.NewAgentWithID("w1", "", 4),
		shapley.NewAgentWithID("w2", "", 3),
		shapley.NewAgentWithID("w3", "", 2),
		shapley.NewAgentWithID("w4", "", 1),
	}
	result, err := engine.Compute(ctx, &shapley.Game{
		Name:      "council",
		Agents:    agents,
		Worth:     shapley.MajorityWorth(6),
		WorthType: "majority",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range result.Entries() {
		fmt.Printf("%s (weight %.0f): power %.4f\n", e.Agent.ID(), e.Agent.Contribution(), e.Value)
	}

	summaries, err := obs.CollectMetrics(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range summaries {
		fmt.Printf("%s = %v (count %d)\n", m.Name, m.Value, m.Count)
	}
}
