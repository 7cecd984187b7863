package automationRepo

import (
	"context"

	"apexbooking/models"
)

// AutomationRepository defines data access for automations. Reads return
// (nil, nil) when the document does not exist.
type AutomationRepository interface {
	Create(ctx context.Context, automation *models.Automation) error
	GetByID(ctx context.Context, id string) (*models.Automation, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.Automation, error)
	Update(ctx context.Context, automation *models.Automation) error
	Delete(ctx context.Context, id string) error
}
