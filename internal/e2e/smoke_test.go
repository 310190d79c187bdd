package e2e

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	configHome := t.TempDir()
	binaryPath := buildBinary(t)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = io.WriteString(w, `{"token":"smoke-token"}`)
		case "/category/list":
			if r.Header.Get("Authorization") != "Bearer smoke-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `[{"name":"Food","type":"expense"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"not found"}`)
		}
	}))
	t.Cleanup(gateway.Close)

	stdout, stderr, err := runExpbot(t, binaryPath, configHome, "", "config", "init", "--gateway-url", gateway.URL)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, filepath.Join(configHome, "expbot", "config.toml"))

	stdout, stderr, err = runExpbot(t, binaryPath, configHome, "/login alice pw\n/listcategories\n",
		"console", "--prompt=false", "--log-level", "warn")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Login successful! Token saved.")
	assert.Contains(t, stdout, `"name": "Food"`)
}

func TestSmokeCommandsTable(t *testing.T) {
	binaryPath := buildBinary(t)

	stdout, stderr, err := runExpbot(t, binaryPath, t.TempDir(), "", "commands")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 14)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "expbot-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/expbot")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build expbot binary: %s", string(output))
	return binaryPath
}

func runExpbot(t *testing.T, binaryPath, configHome, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(cleanEnv(), "XDG_CONFIG_HOME="+configHome, "HOME="+configHome)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// cleanEnv drops the variables expbot reads so the host config cannot leak in.
func cleanEnv() []string {
	env := make([]string, 0, len(os.Environ()))
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "EXPBOT_") || name == "TELEGRAM_TOKEN" || name == "API_GATEWAY_URL" ||
			name == "XDG_CONFIG_HOME" || name == "HOME" {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
