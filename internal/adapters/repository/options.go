package repository

const defaultMaxConns = 10

type openConfig struct {
	maxConns int32
}

func defaultOpenConfig() openConfig {
	return openConfig{maxConns: defaultMaxConns}
}

// Option configures Open.
type Option func(*openConfig)

// WithMaxConns bounds the PostgreSQL connection pool.
func WithMaxConns(n int) Option {
	return func(c *openConfig) {
		if n > 0 {
			c.maxConns = int32(n)
		}
	}
}
