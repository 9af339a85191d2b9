package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/asiergaray/detour/internal/adapters/postgres"
	"github.com/asiergaray/detour/internal/pkg/config"
	"github.com/asiergaray/detour/internal/workflows"
)

func main() {
	cfg, err := config.Load("detour-maintenance")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), int(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.MaintenanceWorkflow)
	w.RegisterActivity(&workflows.MaintenanceActivities{
		Attractions: postgres.NewAttractionRepo(db),
	})

	// Nightly catalog upkeep. Starting with an existing workflow ID is a
	// no-op, so re-deploys do not stack schedules.
	_, err = c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           "catalog-maintenance",
		TaskQueue:    cfg.Temporal.TaskQueue,
		CronSchedule: "0 4 * * *",
	}, workflows.MaintenanceWorkflow)
	if err != nil {
		log.Printf("schedule maintenance workflow: %v", err)
	}

	log.Println("maintenance worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
