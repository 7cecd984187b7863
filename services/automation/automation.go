package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"apexbooking/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("automation not found")
	ErrInvalidInput = errors.New("invalid automation")
)

// validate mirrors the setup form rules: a real name, a real message, and a
// subject when the channel is email.
func validate(input AutomationInput) error {
	if len(strings.TrimSpace(input.Name)) < 3 {
		return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidInput)
	}
	if input.Channel != models.ChannelSMS && input.Channel != models.ChannelEmail {
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, input.Channel)
	}
	if input.Trigger == "" {
		return fmt.Errorf("%w: trigger is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(input.Message)) < 10 {
		return fmt.Errorf("%w: message must be at least 10 characters", ErrInvalidInput)
	}
	if input.Channel == models.ChannelEmail && len(strings.TrimSpace(input.Subject)) < 3 {
		return fmt.Errorf("%w: email automations need a subject", ErrInvalidInput)
	}
	return nil
}

// Create validates and persists a new automation for the business.
func (s *DefaultAutomationService) Create(ctx context.Context, businessID string, input AutomationInput) (*models.Automation, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	record := &models.Automation{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		Name:          strings.TrimSpace(input.Name),
		Channel:       input.Channel,
		Trigger:       input.Trigger,
		OffsetMinutes: input.OffsetMinutes,
		Subject:       strings.TrimSpace(input.Subject),
		Message:       input.Message,
		Enabled:       input.Enabled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save automation: %w", err)
	}
	return record, nil
}

// GetByID returns an automation, scoped to the owning business.
func (s *DefaultAutomationService) GetByID(ctx context.Context, businessID, id string) (*models.Automation, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch automation: %w", err)
	}
	if record == nil || record.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return record, nil
}

// List returns the business's automations, newest first.
func (s *DefaultAutomationService) List(ctx context.Context, businessID string) ([]models.Automation, error) {
	records, err := s.Repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}
	return records, nil
}

// Update validates and overwrites an existing automation.
func (s *DefaultAutomationService) Update(ctx context.Context, businessID, id string, input AutomationInput) (*models.Automation, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	record, err := s.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	record.Name = strings.TrimSpace(input.Name)
	record.Channel = input.Channel
	record.Trigger = input.Trigger
	record.OffsetMinutes = input.OffsetMinutes
	record.Subject = strings.TrimSpace(input.Subject)
	record.Message = input.Message
	record.Enabled = input.Enabled
	record.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update automation: %w", err)
	}
	return record, nil
}

// Delete removes an automation, scoped to the owning business.
func (s *DefaultAutomationService) Delete(ctx context.Context, businessID, id string) error {
	if _, err := s.GetByID(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}
	return nil
}
