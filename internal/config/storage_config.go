package config

const (
	StorageDriverMemory = "memory"
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
)

type Storage struct {
	Driver        string `mapstructure:"driver"`
	FilePath      string `mapstructure:"file_path"`
	Secret        string `mapstructure:"secret"` // passphrase sealing file values, optional
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

var _ StorageConfig = Storage{}

func defaultStorage() Storage {
	return Storage{
		Driver:      StorageDriverFile,
		FilePath:    "./data/session.json",
		RedisAddr:   "localhost:6379",
		RedisPrefix: "events-client:",
	}
}

func (s Storage) GetStorageDriver() string {
	if s.Driver == "" {
		return StorageDriverMemory
	}
	return s.Driver
}

func (s Storage) GetStorageFilePath() string {
	return s.FilePath
}

func (s Storage) GetStorageSecret() string {
	return s.Secret
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Storage) GetRedisDB() int {
	return s.RedisDB
}

func (s Storage) GetRedisPrefix() string {
	return s.RedisPrefix
}
