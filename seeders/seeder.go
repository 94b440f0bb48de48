// Package seeders fills a backend with demo service requests.
package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/catalog"
	"repair-desk/internal/entities"
)

const demoAuthor = "Demo Admin"

// SeedDemo creates the demo requests and walks them through their statuses.
// Status changes and notes need admin, so caller must hold that role.
func SeedDemo(ctx context.Context, actor backend.Actor, admin entities.Caller, logger *zap.Logger) ([]uint64, error) {
	logger.Info("seeding demo service requests", zap.Int("count", len(demoRequests)))

	ids := make([]uint64, 0, len(demoRequests))
	for _, d := range demoRequests {
		selected := d.Form.Services()
		id, err := actor.CreateServiceRequest(ctx, entities.AnonymousCaller(), backend.NewServiceRequest{
			CustomerName:       d.Form.CustomerName,
			ContactInfo:        d.Form.FormattedContactInfo(),
			ServicesRequested:  selected,
			TotalPriceEstimate: catalog.FormatTotal(catalog.Total(selected)),
			Description:        d.Form.FormattedDescription(),
		})
		if err != nil {
			return ids, fmt.Errorf("seed request for %s: %w", d.Form.CustomerName, err)
		}
		ids = append(ids, id)

		for _, status := range d.Statuses {
			if err := actor.UpdateRequestStatus(ctx, admin, id, status); err != nil {
				return ids, fmt.Errorf("seed status %s on %d: %w", status, id, err)
			}
		}
		for _, n := range d.Notes {
			if err := actor.AddNote(ctx, admin, id, n.Destination, demoAuthor, n.Message); err != nil {
				return ids, fmt.Errorf("seed note on %d: %w", id, err)
			}
		}
		logger.Debug("demo request seeded", zap.Uint64("id", id), zap.String("customer", d.Form.CustomerName))
	}

	logger.Info("demo seeding finished", zap.Uint64s("ids", ids))
	return ids, nil
}
