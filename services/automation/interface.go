package automation

import (
	"context"

	automationRepo "apexbooking/database/repository/automation"
	"apexbooking/models"
	"apexbooking/utils"
)

// AutomationService manages an owner's reminder/follow-up rules.
type AutomationService interface {
	Create(ctx context.Context, businessID string, input AutomationInput) (*models.Automation, error)
	GetByID(ctx context.Context, businessID, id string) (*models.Automation, error)
	List(ctx context.Context, businessID string) ([]models.Automation, error)
	Update(ctx context.Context, businessID, id string, input AutomationInput) (*models.Automation, error)
	Delete(ctx context.Context, businessID, id string) error
}

// AutomationInput is the owner-editable portion of an automation.
type AutomationInput struct {
	Name          string                   `json:"name"`
	Channel       models.AutomationChannel `json:"channel"`
	Trigger       string                   `json:"trigger"`
	OffsetMinutes int                      `json:"offsetMinutes"`
	Subject       string                   `json:"subject,omitempty"`
	Message       string                   `json:"message"`
	Enabled       bool                     `json:"enabled"`
}

// DefaultAutomationService implements AutomationService.
type DefaultAutomationService struct {
	Repo  automationRepo.AutomationRepository
	Clock utils.Clock
}
