package ai

import (
	"fmt"
	"strings"
)

// ExtractJSONObject returns the outermost JSON object embedded in a model
// reply. Models often wrap JSON in markdown fences or prose, so the slice
// runs from the first '{' to the last '}'.
func ExtractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return content[start : end+1], nil
}
