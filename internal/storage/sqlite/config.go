package sqlite

import "fmt"

type Config struct {
	DatabasePath string
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("SQLite database path is required")
	}
	return nil
}

func (c *Config) GetType() string {
	return "sqlite"
}
