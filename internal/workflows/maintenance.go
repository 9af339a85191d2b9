package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// MaintenanceResult summarizes one catalog maintenance run.
type MaintenanceResult struct {
	BackfilledCategories int64
	CatalogSize          int
}

// MaintenanceWorkflow runs the periodic catalog upkeep: derive category
// labels for attractions that were ingested without one, then report the
// catalog size. Meant to run on a cron schedule.
func MaintenanceWorkflow(ctx workflow.Context) (*MaintenanceResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting catalog maintenance")

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var result MaintenanceResult

	// Step 1: backfill derived categories
	err := workflow.ExecuteActivity(ctx, "BackfillCategories").Get(ctx, &result.BackfilledCategories)
	if err != nil {
		return nil, err
	}

	// Step 2: report catalog size
	err = workflow.ExecuteActivity(ctx, "CountAttractions").Get(ctx, &result.CatalogSize)
	if err != nil {
		return nil, err
	}

	logger.Info("Catalog maintenance finished",
		"backfilled", result.BackfilledCategories,
		"catalogSize", result.CatalogSize)
	return &result, nil
}
