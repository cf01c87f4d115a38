package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/storeroom/internal/jsonl"
	"github.com/mesh-intelligence/storeroom/internal/logger"
	"github.com/mesh-intelligence/storeroom/internal/paths"
	"github.com/mesh-intelligence/storeroom/pkg/storeroom"
)

// openRegistry builds the configured registry and loads the seed file, if
// any. The caller must defer Close.
func (a *app) openRegistry() (storeroom.Store, error) {
	store, err := storeroom.Open(a.registryConfig())
	if err != nil {
		return nil, sysError(fmt.Errorf("open registry: %w", err))
	}

	seed, err := paths.ResolveSeed("", a.v.GetString(cfgKeySeed))
	if err != nil {
		store.Close()
		return nil, sysError(fmt.Errorf("resolve seed: %w", err))
	}
	if seed == "" {
		return store, nil
	}

	records, err := jsonl.ReadFile(seed)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load seed: %w", err)
	}
	if err := jsonl.Load(store, records); err != nil {
		store.Close()
		return nil, fmt.Errorf("load seed: %w", err)
	}
	logger.Info("seed loaded", "path", seed, "items", store.Len())
	return store, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
