package storage

import (
	"fmt"

	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/redis/go-redis/v9"
)

// Open builds the slot selected by the storage configuration.
func Open(cfg config.StorageConfig) (Slot, error) {
	switch cfg.GetStorageDriver() {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverFile:
		return NewFile(cfg.GetStorageFilePath(), WithSecret(cfg.GetStorageSecret()))
	case config.StorageDriverRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		return NewRedis(rc, cfg.GetRedisPrefix())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.GetStorageDriver())
	}
}
