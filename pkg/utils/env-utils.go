package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

// GenerateEnvVarName converts the input to uppercase, replaces runs of non-alphanumeric
// characters with underscores and trims leading and trailing underscores.
func GenerateEnvVarName(input string) string {
	normalized := nonAlphanumeric.ReplaceAllString(strings.ToUpper(input), "_")
	return strings.Trim(normalized, "_")
}

// GenerateInputsAPIKeyEnvVarName names the variable overriding the API key of an upstream
// client pushing adherence inputs. Format: ADHERENCE_INPUTS_API_KEY_FOR_{NORMALIZED_NAME}
func GenerateInputsAPIKeyEnvVarName(clientName string) string {
	return "ADHERENCE_INPUTS_API_KEY_FOR_" + GenerateEnvVarName(clientName)
}
