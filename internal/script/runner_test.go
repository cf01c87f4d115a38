package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storeroom/pkg/storeroom"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

const demoOutput = `Adding item: ITEM001 - LED Light
Adding item: ITEM002 - Fan Motor
Attempting to add ITEM001 again...
Error: id ITEM001: item already exists
Retrieving ITEM002...
Found: Fan Motor at Aisle 2, Shelf 5
Removing ITEM003...
Error: id ITEM003: item not found
Items in Description Order:
- Fan Motor: Aisle 2, Shelf 5
- LED Light: Aisle 3, Shelf 1
[Test] caught duplicate addition: id ITEM001: item already exists
[Test] Caught item not found: id NOITEM: item not found
`

func TestDemo(t *testing.T) {
	for _, backend := range []string{types.BackendMemory, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			s, err := Demo()
			require.NoError(t, err)

			var out bytes.Buffer
			res, err := NewRunner(types.Config{Backend: backend}, &out).Run(s)
			require.NoError(t, err)

			assert.True(t, res.OK(), "failures: %v", res.Failures)
			assert.Equal(t, 3, res.Scenarios)
			assert.Equal(t, 9, res.Steps)
			assert.Equal(t, demoOutput, out.String())

			parsed, err := uuid.Parse(res.RunID)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(7), parsed.Version())
		})
	}
}

func TestRun_ExpectationFailures(t *testing.T) {
	s, err := Parse([]byte(`
name: failing
scenarios:
  - name: mismatches
    items:
      - {id: A, description: Widget, location: Bin 1}
    steps:
      - {op: add, id: A, description: Widget, expect: ok}
      - {op: find, id: B, expect: ok}
      - {op: remove, id: A, expect: not_found}
      - {op: list, want: [Gadget]}
      - {op: add, id: "", description: Nameless, expect: invalid_id}
`))
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := NewRunner(types.Config{Backend: types.BackendMemory}, &out).Run(s)
	require.NoError(t, err)

	require.Len(t, res.Failures, 4)
	assert.Equal(t, Failure{Scenario: "mismatches", Step: 1, Op: OpAdd, ID: "A", Want: ExpectOK, Got: ExpectDuplicateKey}, res.Failures[0])
	assert.Equal(t, Failure{Scenario: "mismatches", Step: 2, Op: OpFind, ID: "B", Want: ExpectOK, Got: ExpectNotFound}, res.Failures[1])
	assert.Equal(t, Failure{Scenario: "mismatches", Step: 3, Op: OpRemove, ID: "A", Want: ExpectNotFound, Got: ExpectOK}, res.Failures[2])
	assert.Equal(t, OpList, res.Failures[3].Op)
	assert.Equal(t, outcomeMismatch, res.Failures[3].Got)
	assert.False(t, res.OK())
	assert.Contains(t, out.String(), "Removed: A")
}

func TestRun_ScenariosAreIsolated(t *testing.T) {
	s, err := Parse([]byte(`
name: isolation
scenarios:
  - name: first
    steps:
      - {op: add, id: A, description: Widget, expect: ok}
  - name: second
    steps:
      - {op: find, id: A, expect: not_found}
      - {op: add, id: A, description: Widget, expect: ok}
`))
	require.NoError(t, err)

	for _, backend := range []string{types.BackendMemory, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			res, err := NewRunner(types.Config{Backend: backend}, &bytes.Buffer{}).Run(s)
			require.NoError(t, err)
			assert.True(t, res.OK(), "failures: %v", res.Failures)
		})
	}
}

func TestRun_SeedFailure(t *testing.T) {
	s := &Script{Name: "bad seed", Scenarios: []Scenario{{
		Name:  "dupes",
		Items: []types.ItemRecord{{ID: "A"}, {ID: "A"}},
	}}}

	_, err := NewRunner(types.Config{Backend: types.BackendMemory}, &bytes.Buffer{}).Run(s)
	assert.ErrorIs(t, err, types.ErrDuplicateKey)
}

func TestRun_OpenFailure(t *testing.T) {
	boom := errors.New("boom")
	r := &Runner{
		Open: func() (storeroom.Store, error) { return nil, boom },
		Out:  &bytes.Buffer{},
	}
	s := &Script{Name: "x", Scenarios: []Scenario{{Name: "only"}}}

	_, err := r.Run(s)
	assert.ErrorIs(t, err, boom)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "no scenarios",
			input:   "name: empty\n",
			wantErr: "no scenarios",
		},
		{
			name:    "unknown op",
			input:   "scenarios:\n  - steps:\n      - {op: update, id: A}\n",
			wantErr: `unknown op "update"`,
		},
		{
			name:    "unknown expect",
			input:   "scenarios:\n  - steps:\n      - {op: find, id: A, expect: maybe}\n",
			wantErr: `unknown expect "maybe"`,
		},
		{
			name:    "want outside list",
			input:   "scenarios:\n  - steps:\n      - {op: find, id: A, want: [x]}\n",
			wantErr: "want is only valid for list",
		},
		{
			name:    "invalid yaml",
			input:   "scenarios: [",
			wantErr: "parsing script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - steps:\n      - {op: list}\n"), 0o644))

	s, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, s.Scenarios, 1)
	assert.Equal(t, OpList, s.Scenarios[0].Steps[0].Op)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
