package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Translation.validate(); err != nil {
		return fmt.Errorf("translation: %w", err)
	}

	return nil
}

func (t *TranslationConfig) validate() error {
	if t.MaxConcurrentBatches <= 0 {
		return fmt.Errorf("max_concurrent_batches must be > 0 (got %d)", t.MaxConcurrentBatches)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", t.MaxRetries)
	}
	if t.WindowSize <= 0 {
		return fmt.Errorf("window_size must be > 0 (got %d)", t.WindowSize)
	}
	if t.TokenTargetSimple <= 0 || t.TokenTargetModerate <= 0 || t.TokenTargetComplex <= 0 {
		return fmt.Errorf("token targets must all be > 0 (simple=%d moderate=%d complex=%d)",
			t.TokenTargetSimple, t.TokenTargetModerate, t.TokenTargetComplex)
	}
	return nil
}
