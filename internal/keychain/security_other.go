// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import (
	"errors"
	"log/slog"
)

// securityBackend is unavailable outside macOS.
type securityBackend struct{}

func newSecurityBackend(*slog.Logger) (*securityBackend, error) {
	return nil, errors.New("security backend only available on macOS")
}

func (s *securityBackend) Set(key, value string) error { return errors.ErrUnsupported }

func (s *securityBackend) Get(key string) (string, error) { return "", errors.ErrUnsupported }

func (s *securityBackend) Delete(key string) error { return errors.ErrUnsupported }
