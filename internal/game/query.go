package game

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alnah/go-stageload/internal/config"
)

// LevelParam is the query parameter selecting the level at startup.
const LevelParam = "level"

// ParseLevelQuery returns the level named by a query string such as
// "?level=Caves" or "level=Caves&debug=1". An absent or empty parameter
// yields config.DefaultLevelName.
func ParseLevelQuery(query string) (string, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return "", fmt.Errorf("parsing query %q: %w", query, err)
	}
	if name := values.Get(LevelParam); name != "" {
		return name, nil
	}
	return config.DefaultLevelName, nil
}
