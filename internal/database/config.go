package database

import (
	"fmt"
	"net"
	"net/url"

	"taskboard/internal/config"
)

// Config holds database configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// NewConfig derives the database configuration from the application config
func NewConfig(appConfig *config.Config) *Config {
	return &Config{
		Driver:     appConfig.DBDriver,
		Host:       appConfig.DBHost,
		Port:       appConfig.DBPort,
		User:       appConfig.DBUser,
		Password:   appConfig.DBPassword,
		DBName:     appConfig.DBName,
		SSLMode:    appConfig.DBSSLMode,
		SQLitePath: appConfig.SQLitePath,
	}
}

// DSN returns the driver-specific connection string
func (c *Config) DSN() string {
	if c.Driver == config.DriverSQLite {
		return SQLiteDSN(c.SQLitePath)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the postgres:// URL expected by golang-migrate.
// Credentials are percent-encoded.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// SQLiteDSN builds a sqlite DSN with foreign key enforcement switched on.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=1", path)
}
