// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import "strings"

// Fields are discrete connection settings, as read from DB_* variables.
type Fields struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// Build assembles a canonical DSN from discrete settings.
// Host and port fall back to localhost and DefaultPort; user and database are required.
func Build(f Fields) (string, error) {
	info := &Info{
		Host:     strings.TrimSpace(f.Host),
		Port:     strings.TrimSpace(f.Port),
		User:     f.User,
		Password: f.Password,
		Database: f.Database,
		Params:   map[string]string{},
	}
	if info.Host == "" {
		info.Host = "localhost"
	}
	if info.Port == "" {
		info.Port = DefaultPort
	}
	if f.SSLMode != "" {
		info.Params["sslmode"] = f.SSLMode
	}
	if err := info.check(); err != nil {
		err.Hint = "set DB_USER and DB_NAME, or provide a full DSN"
		return "", err
	}
	return info.String(), nil
}
