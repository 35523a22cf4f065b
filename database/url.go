package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL appends the database name to a server URL and
// defaults sslmode to disable. An empty name returns baseURL untouched.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")
	host, query, hasQuery := strings.Cut(baseURL, "?")

	databaseURL := fmt.Sprintf("%s/%s", host, databaseName)
	if hasQuery {
		databaseURL = fmt.Sprintf("%s?%s", databaseURL, query)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !hasQuery {
			separator = "?"
		}
		databaseURL += separator + "sslmode=disable"
	}

	return databaseURL
}
