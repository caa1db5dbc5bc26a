package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name into a
// connection string. The base URL is returned untouched when no name is
// given. sslmode=disable is added unless the URL already sets a mode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return baseURL
	}

	u.Path = "/" + databaseName

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
