package availability

import (
	"context"
	"errors"
)

// Service owns a provider's declared schedule configuration.
type Service interface {
	// GetConfig returns the provider's config, falling back to the documented
	// default when none has been saved yet. A missing config is not an error.
	GetConfig(ctx context.Context, providerID string) (Config, error)

	// SetConfig validates and atomically replaces the provider's config.
	SetConfig(ctx context.Context, providerID string, cfg Config) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetConfig(ctx context.Context, providerID string) (Config, error) {
	cfg, err := s.repo.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}

func (s *service) SetConfig(ctx context.Context, providerID string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.repo.Put(ctx, providerID, cfg)
}
