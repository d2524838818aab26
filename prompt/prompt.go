package prompt

import (
	"os"
	"regexp"
	"strings"
)

const (
	fileEnv   = "DEFAULT_SYSTEM_PROMPT_FILE"
	inlineEnv = "DEFAULT_SYSTEM_PROMPT"
)

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// Load resolves the system prompt: a prompt file named by
// DEFAULT_SYSTEM_PROMPT_FILE wins, then the inline DEFAULT_SYSTEM_PROMPT
// value (with literal \n sequences unescaped), then the fallback. A file
// pointer that cannot be read falls through rather than failing.
func Load(fallback string) string {
	if path := os.Getenv(fileEnv); len(path) > 0 {
		expanded := os.ExpandEnv(path)
		if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(expanded, "~") {
			expanded = home + expanded[1:]
		}
		if raw, err := os.ReadFile(expanded); err == nil {
			return normalize(string(raw))
		}
	}

	if raw, ok := os.LookupEnv(inlineEnv); ok {
		return normalize(raw)
	}

	return fallback
}

func normalize(raw string) string {
	normalized := strings.ReplaceAll(raw, `\n`, "\n")
	normalized = strings.TrimSpace(normalized)
	return newlineRuns.ReplaceAllString(normalized, "\n\n")
}
