package workflows

import (
	"context"
	"fmt"

	"github.com/asiergaray/detour/internal/core/ports"
)

// MaintenanceActivities holds the activity implementations for the
// maintenance workflow.
type MaintenanceActivities struct {
	Attractions ports.AttractionRepository
}

// BackfillCategories derives category labels for attractions missing one and
// returns the number of rows updated.
func (a *MaintenanceActivities) BackfillCategories(ctx context.Context) (int64, error) {
	n, err := a.Attractions.BackfillCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("backfill categories: %w", err)
	}
	return n, nil
}

// CountAttractions returns the current catalog size.
func (a *MaintenanceActivities) CountAttractions(ctx context.Context) (int, error) {
	n, err := a.Attractions.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count attractions: %w", err)
	}
	return n, nil
}
