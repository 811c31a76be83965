package geocode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Token source precedence: environment variables first, then token.txt, then
// token.json in the data directory. Several historical key spellings are
// accepted in the JSON forms.
var (
	tokenEnvVars  = []string{"MAPBOX_ACCESS_TOKEN", "MAPBOX_TOKEN", "NEXT_PUBLIC_MAPBOX_TOKEN"}
	tokenJSONKeys = []string{"MAPBOX_ACCESS_TOKEN", "MAPBOX_TOKEN", "NEXT_PUBLIC_MAPBOX_TOKEN", "token", "access_token"}

	tokenAssignRe = regexp.MustCompile(`(?i)^\s*(token|access_token|mapbox_token|mapbox_access_token|next_public_mapbox_token)\s*=\s*`)
)

// ResolveToken finds a Mapbox access token from the environment or from
// token files under dataDir. Returns an error when no source yields a token.
func ResolveToken(dataDir string) (string, error) {
	for _, name := range tokenEnvVars {
		if t := stripQuotes(os.Getenv(name)); t != "" {
			return t, nil
		}
	}

	if t := tokenFromTxt(filepath.Join(dataDir, "token.txt")); t != "" {
		return t, nil
	}
	if t := tokenFromJSON(filepath.Join(dataDir, "token.json")); t != "" {
		return t, nil
	}

	return "", eris.Errorf("geocode: no mapbox token found (checked %s, %s)",
		strings.Join(tokenEnvVars, "/"), dataDir)
}

// tokenFromTxt reads a token from a plain-text file. The file may contain a
// bare token, a "token=..." assignment, or an entire JSON object.
func tokenFromTxt(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	raw := stripQuotes(strings.TrimSpace(stripBOM(string(data))))

	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		if t := tokenFromJSONBytes([]byte(raw)); t != "" {
			return t
		}
	}

	return stripQuotes(tokenAssignRe.ReplaceAllString(raw, ""))
}

// tokenFromJSON reads a token from a JSON file with any accepted key.
func tokenFromJSON(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return tokenFromJSONBytes([]byte(stripBOM(string(data))))
}

func tokenFromJSONBytes(data []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return ""
	}
	for _, key := range tokenJSONKeys {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return stripQuotes(s)
			}
		}
	}
	return ""
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
