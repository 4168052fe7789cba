package cache

import (
	"fmt"

	quoteapp "github.com/beanport/backend/internal/application/quote"
	"github.com/beanport/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IntakeStoreFactory creates intake stores based on configuration
type IntakeStoreFactory struct {
	redisConfig           config.RedisConfig
	intakeConfig          config.IntakeConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IntakeStoreFactoryOption is a functional option for configuring the factory
type IntakeStoreFactoryOption func(*IntakeStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IntakeStoreFactoryOption {
	return func(f *IntakeStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) IntakeStoreFactoryOption {
	return func(f *IntakeStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIntakeStoreFactory creates a new factory
func NewIntakeStoreFactory(redisCfg config.RedisConfig, intakeCfg config.IntakeConfig, opts ...IntakeStoreFactoryOption) *IntakeStoreFactory {
	f := &IntakeStoreFactory{
		redisConfig:           redisCfg,
		intakeConfig:          intakeCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based intake store
func (f *IntakeStoreFactory) CreateRedisStore() (quoteapp.IdempotencyStore, error) {
	store, err := NewRedisIntakeStore(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis intake store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory intake store.
// In-memory stores do not share state across process instances, so a
// duplicate submission hitting a second instance would slip through.
func (f *IntakeStoreFactory) CreateInMemoryStore() quoteapp.IdempotencyStore {
	return NewInMemoryIntakeStore(f.intakeConfig.SweepPeriod)
}

// CreateStore tries Redis first and falls back to the in-memory store when
// Redis is not reachable and fallback is allowed.
func (f *IntakeStoreFactory) CreateStore() (quoteapp.IdempotencyStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis intake store",
			zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis intake store unavailable and fallback disabled: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory intake store",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err))
	return f.CreateInMemoryStore(), nil
}
