package geocode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, name := range tokenEnvVars {
		t.Setenv(name, "")
	}
}

func TestResolveTokenEnvPrecedence(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("MAPBOX_TOKEN", "pk.from-mapbox-token")
	t.Setenv("NEXT_PUBLIC_MAPBOX_TOKEN", "pk.from-next-public")

	token, err := ResolveToken(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "pk.from-mapbox-token", token, "MAPBOX_TOKEN beats NEXT_PUBLIC_MAPBOX_TOKEN")

	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.from-access-token")
	token, err = ResolveToken(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "pk.from-access-token", token, "MAPBOX_ACCESS_TOKEN wins overall")
}

func TestResolveTokenEnvBeatsFiles(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("MAPBOX_TOKEN", "pk.env")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte("pk.file"), 0o644))

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "pk.env", token)
}

func TestResolveTokenFromTxt(t *testing.T) {
	clearTokenEnv(t)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare token", "pk.abc123\n", "pk.abc123"},
		{"quoted", `"pk.abc123"`, "pk.abc123"},
		{"assignment", "MAPBOX_ACCESS_TOKEN=pk.abc123", "pk.abc123"},
		{"assignment quoted", `token = "pk.abc123"`, "pk.abc123"},
		{"json object", `{"access_token": "pk.abc123"}`, "pk.abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte(tt.content), 0o644))

			token, err := ResolveToken(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestResolveTokenFromJSON(t *testing.T) {
	clearTokenEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"),
		[]byte(`{"NEXT_PUBLIC_MAPBOX_TOKEN": "pk.json-token"}`), 0o644))

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "pk.json-token", token)
}

func TestResolveTokenTxtBeatsJSON(t *testing.T) {
	clearTokenEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte("pk.txt"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"), []byte(`{"token": "pk.json"}`), 0o644))

	token, err := ResolveToken(dir)
	require.NoError(t, err)
	assert.Equal(t, "pk.txt", token)
}

func TestResolveTokenMissing(t *testing.T) {
	clearTokenEnv(t)
	_, err := ResolveToken(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapbox token")
}
