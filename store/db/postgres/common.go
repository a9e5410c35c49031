package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
)

// placeholder returns the n-th placeholder for PostgreSQL (uses $n).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// marshalStringList encodes a string list for a JSON text column.
// A nil list is stored as "[]" so columns never hold NULL or "null".
func marshalStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	buf, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// unmarshalStringList decodes a JSON text column into a string list.
func unmarshalStringList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
