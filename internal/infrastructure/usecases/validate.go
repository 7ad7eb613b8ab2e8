package usecases

import (
	"context"
	"fmt"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
	"github.com/sophialabs/catapult/internal/infrastructure/services"
)

// ValidateUseCase loads the configuration and inspects it without
// resolving anything.
type ValidateUseCase struct {
	repo   matcher.Repository
	logger ports.Logger
}

// NewValidateUseCase creates a new use case.
func NewValidateUseCase(repo matcher.Repository, logger ports.Logger) *ValidateUseCase {
	return &ValidateUseCase{repo: repo, logger: logger}
}

// Execute returns the inspection report. The report is nil only when the
// configuration could not be loaded; invalid patterns yield a report and
// an error.
func (uc *ValidateUseCase) Execute(ctx context.Context) (*services.Report, error) {
	cfg, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	report, err := services.Inspect(cfg)
	uc.logger.Info("inspected configuration",
		"source", uc.repo.Source(),
		"nodes", report.Nodes,
		"depth", report.Depth,
		"warnings", len(report.Warnings),
	)
	for _, w := range report.Warnings {
		uc.logger.Debug("configuration warning", "path", w.Path, "message", w.Message)
	}
	if err != nil {
		return report, fmt.Errorf("invalid configuration: %w", err)
	}
	return report, nil
}
