// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pterm/pterm"
)

// ConnErrorType is the category of a failed connection attempt.
type ConnErrorType int

const (
	ConnErrorUnknown ConnErrorType = iota
	ConnErrorRefused
	ConnErrorAuth
	ConnErrorNoDatabase
	ConnErrorTimeout
	ConnErrorTLS
)

// ParseConnError categorizes a connection failure.
func ParseConnError(err error) ConnErrorType {
	if err == nil {
		return ConnErrorUnknown
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidPassword, pgerrcode.InvalidAuthorizationSpecification:
			return ConnErrorAuth
		case pgerrcode.InvalidCatalogName:
			return ConnErrorNoDatabase
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ConnErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ConnErrorTimeout
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return ConnErrorRefused
	case strings.Contains(lower, "password authentication failed"):
		return ConnErrorAuth
	case strings.Contains(lower, "does not exist") && strings.Contains(lower, "database"):
		return ConnErrorNoDatabase
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return ConnErrorTimeout
	case strings.Contains(lower, "tls") || strings.Contains(lower, "ssl"):
		return ConnErrorTLS
	}
	return ConnErrorUnknown
}

// FormatConnectionError renders a connection failure with a hint for the
// likely fix and the masked technical details.
func FormatConnectionError(err error) string {
	var b strings.Builder

	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Cannot connect to the database"))
	b.WriteString("\n\n")

	switch ParseConnError(err) {
	case ConnErrorRefused:
		b.WriteString("The server did not accept the connection.\n")
		b.WriteString("Check that PostgreSQL is running and that host and port are correct.\n")
	case ConnErrorAuth:
		b.WriteString("The server rejected the user name or password.\n")
	case ConnErrorNoDatabase:
		b.WriteString("The database named in the connection settings does not exist.\n")
	case ConnErrorTimeout:
		b.WriteString("The server did not answer in time.\n")
	case ConnErrorTLS:
		b.WriteString("The TLS handshake failed. Try a different sslmode.\n")
	default:
		b.WriteString("The connection attempt failed.\n")
	}

	b.WriteString("\n")
	b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'metroline connect' or set DB_HOST, DB_USER, DB_PASSWORD and DB_NAME"))
	b.WriteString("\n")

	if err != nil {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint(fmt.Sprintf("Technical details: %s", Mask(err.Error()))))
	}
	return b.String()
}
