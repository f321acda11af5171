package config

// RedisConfig represents the base Redis connection configuration. The
// pkg/cache package embeds this and layers pool, compression, and circuit
// breaker settings on top.
type RedisConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}
