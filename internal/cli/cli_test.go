package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storeroom/internal/logger"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

const seedJSONL = `{"id":"ITEM001","description":"LED Light","location":"Aisle 3, Shelf 1"}
{"id":"ITEM002","description":"Fan Motor","location":"Aisle 2, Shelf 5"}
`

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree in-process with an isolated config
// directory.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	t.Setenv("STOREROOM_CONFIG_DIR", t.TempDir())
	t.Setenv("STOREROOM_SEED", "")
	t.Setenv("STOREROOM_BACKEND", "")
	t.Setenv("STOREROOM_LOG_LEVEL", "")
	t.Cleanup(func() { logger.Init(logger.Options{}) })

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, args, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(seedJSONL), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "version")
	assert.Equal(t, exitSuccess, res.code)
	assert.Equal(t, "storeroom v0.1.0\nmodule: github.com/mesh-intelligence/storeroom\n", res.stdout)
}

func TestDemo(t *testing.T) {
	for _, backend := range []string{types.BackendMemory, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			res := runCLI(t, "demo", "--backend", backend)
			require.Equal(t, exitSuccess, res.code, res.stderr)
			assert.Contains(t, res.stdout, "Error: id ITEM001: item already exists\n")
			assert.Contains(t, res.stdout, "Items in Description Order:\n- Fan Motor: Aisle 2, Shelf 5\n- LED Light: Aisle 3, Shelf 1\n")
			assert.Contains(t, res.stdout, "[Test] Caught item not found: id NOITEM: item not found\n")
		})
	}
}

func TestDemo_JSON(t *testing.T) {
	res := runCLI(t, "demo", "--json")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var got struct {
		RunID     string            `json:"run_id"`
		Scenarios int               `json:"scenarios"`
		Steps     int               `json:"steps"`
		Failures  []json.RawMessage `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 3, got.Scenarios)
	assert.Equal(t, 9, got.Steps)
	assert.Empty(t, got.Failures)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	passing := filepath.Join(dir, "pass.yaml")
	require.NoError(t, os.WriteFile(passing, []byte(`
name: pass
scenarios:
  - name: shared description
    items:
      - {id: A, description: Widget, location: Bin 1}
    steps:
      - {op: add, id: B, description: Widget, location: Bin 2, expect: ok}
      - {op: remove, id: B, expect: ok}
      - {op: list, want: []}
      - {op: find, id: A, expect: ok}
`), 0o644))

	failing := filepath.Join(dir, "fail.yaml")
	require.NoError(t, os.WriteFile(failing, []byte(`
name: fail
scenarios:
  - name: wrong expectation
    steps:
      - {op: find, id: MISSING, expect: ok}
`), 0o644))

	t.Run("all expectations hold", func(t *testing.T) {
		res := runCLI(t, "run", passing)
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Found: Widget at Bin 1\n")
		assert.Contains(t, res.stdout, "1 scenario(s), 4 step(s), 0 failure(s)\n")
	})

	t.Run("mismatch is a user error", func(t *testing.T) {
		res := runCLI(t, "run", failing)
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stdout, "FAIL wrong expectation step 1 (find MISSING): want ok, got not_found\n")
		assert.Contains(t, res.stderr, "Error: 1 expectation(s) failed")
	})

	t.Run("missing file", func(t *testing.T) {
		res := runCLI(t, "run", filepath.Join(dir, "absent.yaml"))
		assert.NotEqual(t, exitSuccess, res.code)
		assert.Contains(t, res.stderr, "Error:")
	})
}

func TestList(t *testing.T) {
	seed := writeSeed(t)

	t.Run("table", func(t *testing.T) {
		res := runCLI(t, "list", "--seed", seed)
		require.Equal(t, exitSuccess, res.code, res.stderr)
		want := "DESCRIPTION  LOCATION          ID\n" +
			"-----------  --------          --\n" +
			"Fan Motor    Aisle 2, Shelf 5  ITEM002\n" +
			"LED Light    Aisle 3, Shelf 1  ITEM001\n" +
			"Total: 2 item(s)\n"
		assert.Equal(t, want, res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "list", "--seed", seed, "--json", "--backend", types.BackendSQLite)
		require.Equal(t, exitSuccess, res.code, res.stderr)

		var records []types.ItemRecord
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &records))
		assert.Equal(t, []types.ItemRecord{
			{ID: "ITEM002", Description: "Fan Motor", Location: "Aisle 2, Shelf 5"},
			{ID: "ITEM001", Description: "LED Light", Location: "Aisle 3, Shelf 1"},
		}, records)
	})

	t.Run("jsonl", func(t *testing.T) {
		res := runCLI(t, "list", "--seed", seed, "--jsonl")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Equal(t,
			`{"id":"ITEM002","description":"Fan Motor","location":"Aisle 2, Shelf 5"}`+"\n"+
				`{"id":"ITEM001","description":"LED Light","location":"Aisle 3, Shelf 1"}`+"\n",
			res.stdout)
	})

	t.Run("no seed", func(t *testing.T) {
		res := runCLI(t, "list")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Equal(t, "No items found.\n", res.stdout)
	})

	t.Run("missing seed file", func(t *testing.T) {
		res := runCLI(t, "list", "--seed", filepath.Join(t.TempDir(), "absent.jsonl"))
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stderr, "load seed")
	})
}

func TestGet(t *testing.T) {
	seed := writeSeed(t)

	t.Run("found", func(t *testing.T) {
		res := runCLI(t, "get", "ITEM002", "--seed", seed)
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Equal(t, "ID:          ITEM002\nDescription: Fan Motor\nLocation:    Aisle 2, Shelf 5\n", res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "get", "ITEM001", "--seed", seed, "--json")
		require.Equal(t, exitSuccess, res.code, res.stderr)

		var rec types.ItemRecord
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &rec))
		assert.Equal(t, types.ItemRecord{ID: "ITEM001", Description: "LED Light", Location: "Aisle 3, Shelf 1"}, rec)
	})

	t.Run("not found", func(t *testing.T) {
		res := runCLI(t, "get", "ITEM003", "--seed", seed)
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stderr, "Error: get item: id ITEM003: item not found")
	})

	t.Run("missing argument", func(t *testing.T) {
		res := runCLI(t, "get")
		assert.Equal(t, exitUserError, res.code)
	})
}

func TestConfig(t *testing.T) {
	t.Run("writes default config on first run", func(t *testing.T) {
		dir := t.TempDir()
		res := runCLI(t, "list", "--config-dir", dir)
		require.Equal(t, exitSuccess, res.code, res.stderr)

		data, err := os.ReadFile(filepath.Join(dir, configFileExt))
		require.NoError(t, err)
		assert.Equal(t, defaultConfigYAML, string(data))
	})

	t.Run("config file selects seed and backend", func(t *testing.T) {
		dir := t.TempDir()
		seed := writeSeed(t)
		cfg := "backend: sqlite\nseed: " + seed + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(cfg), 0o644))

		res := runCLI(t, "get", "ITEM001", "--config-dir", dir)
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "LED Light")
	})

	t.Run("unknown backend from flag", func(t *testing.T) {
		res := runCLI(t, "list", "--backend", "postgres")
		assert.Equal(t, exitSysError, res.code)
		assert.Contains(t, res.stderr, "unknown backend")
	})

	t.Run("invalid log level", func(t *testing.T) {
		res := runCLI(t, "list", "--log-level", "loud")
		assert.Equal(t, exitUserError, res.code)
	})

	t.Run("debug logging goes to stderr", func(t *testing.T) {
		res := runCLI(t, "list", "--log-level", "debug")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stderr, "config loaded")
		assert.Equal(t, "No items found.\n", res.stdout)
	})
}
