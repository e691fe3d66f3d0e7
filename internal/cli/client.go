package cli

import (
	"context"
	"fmt"

	"github.com/driveport/driveport/internal/api"
	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/models"
)

// newClient validates the config and builds a platform client plus the
// authenticated user most commands need.
func newClient(ctx context.Context) (*api.Client, *config.Config, *models.User, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w (run \"driveport configure\")", err)
	}

	client, err := api.NewClient(&cfg.Platform, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return client, cfg, user, nil
}
