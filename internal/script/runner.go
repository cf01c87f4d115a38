package script

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/storeroom/internal/jsonl"
	"github.com/mesh-intelligence/storeroom/internal/logger"
	"github.com/mesh-intelligence/storeroom/pkg/storeroom"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// Failure records a step whose outcome did not match its expectation.
type Failure struct {
	Scenario string `json:"scenario"`
	Step     int    `json:"step"` // 1-based
	Op       string `json:"op"`
	ID       string `json:"id,omitempty"`
	Want     string `json:"want"`
	Got      string `json:"got"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s step %d (%s %s): want %s, got %s", f.Scenario, f.Step, f.Op, f.ID, f.Want, f.Got)
}

// Result summarizes a script run.
type Result struct {
	RunID     string    `json:"run_id"`
	Scenarios int       `json:"scenarios"`
	Steps     int       `json:"steps"`
	Failures  []Failure `json:"failures"`
}

// OK reports whether every expectation held.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Runner executes scripts. Open builds the empty registry for each scenario;
// Out receives the narration.
type Runner struct {
	Open func() (storeroom.Store, error)
	Out  io.Writer
}

// NewRunner returns a Runner that opens registries for cfg.
func NewRunner(cfg types.Config, out io.Writer) *Runner {
	return &Runner{
		Open: func() (storeroom.Store, error) { return storeroom.Open(cfg) },
		Out:  out,
	}
}

// newRunID generates a UUID v7 run ID.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Run executes every scenario of s in order. Expectation mismatches are
// collected in the Result; an error is returned only when a registry cannot
// be opened or seeded.
func (r *Runner) Run(s *Script) (Result, error) {
	res := Result{RunID: newRunID()}
	logger.Info("script started", "run_id", res.RunID, "script", s.Name)

	for _, sc := range s.Scenarios {
		if err := r.runScenario(&res, sc); err != nil {
			return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		res.Scenarios++
	}

	logger.Info("script finished", "run_id", res.RunID, "steps", res.Steps, "failures", len(res.Failures))
	return res, nil
}

func (r *Runner) runScenario(res *Result, sc Scenario) error {
	reg, err := r.Open()
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer reg.Close()

	if err := jsonl.Load(reg, sc.Items); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	for i, st := range sc.Steps {
		logger.Debug("step", "run_id", res.RunID, "scenario", sc.Name, "op", st.Op, "id", st.ID)
		got, err := r.runStep(reg, st)
		res.Steps++

		if err != nil {
			prefix := st.ErrorPrefix
			if prefix == "" {
				prefix = "Error: "
			}
			fmt.Fprintf(r.Out, "%s%v\n", prefix, err)
		}

		want := st.Expect
		if want == "" && st.Want != nil {
			want = ExpectOK
		}
		if want != "" && want != got {
			f := Failure{Scenario: sc.Name, Step: i + 1, Op: st.Op, ID: st.ID, Want: want, Got: got}
			logger.Warn("expectation failed", "run_id", res.RunID, "failure", f.String())
			res.Failures = append(res.Failures, f)
		}
	}
	return nil
}

// runStep performs one step and returns its outcome name. The error is the
// registry error to narrate, or a list mismatch.
func (r *Runner) runStep(reg types.Registry, st Step) (string, error) {
	switch st.Op {
	case OpAdd:
		r.heading(st, "Adding item: %s - %s", st.ID, st.Description)
		item, err := types.NewItem(st.ID, st.Description, st.Location)
		if err != nil {
			return outcome(err), err
		}
		err = reg.Add(item)
		return outcome(err), err

	case OpFind:
		r.heading(st, "Retrieving %s...", st.ID)
		item, err := reg.FindByID(st.ID)
		if err != nil {
			return outcome(err), err
		}
		fmt.Fprintf(r.Out, "Found: %s at %s\n", item.Description(), item.Location())
		return ExpectOK, nil

	case OpRemove:
		r.heading(st, "Removing %s...", st.ID)
		err := reg.Remove(st.ID)
		if err == nil && !st.Quiet {
			fmt.Fprintf(r.Out, "Removed: %s\n", st.ID)
		}
		return outcome(err), err

	case OpList:
		r.heading(st, "Items in Description Order:")
		items, err := reg.ListByDescription()
		if err != nil {
			return outcome(err), err
		}
		descs := make([]string, len(items))
		for i, item := range items {
			descs[i] = item.Description()
			fmt.Fprintf(r.Out, "- %s: %s\n", item.Description(), item.Location())
		}
		if st.Want != nil && !slices.Equal(st.Want, descs) {
			err := fmt.Errorf("list order %q, want %q", descs, st.Want)
			return outcomeMismatch, err
		}
		return ExpectOK, nil
	}
	return "", fmt.Errorf("unknown op %q", st.Op)
}

func (r *Runner) heading(st Step, format string, args ...any) {
	if st.Quiet {
		return
	}
	if st.Say != "" {
		fmt.Fprintln(r.Out, st.Say)
		return
	}
	fmt.Fprintf(r.Out, format+"\n", args...)
}

// outcomeMismatch is the outcome of a list step whose order differs from Want.
const outcomeMismatch = "mismatch"

// outcome maps a registry error onto the Step.Expect vocabulary.
func outcome(err error) string {
	switch {
	case err == nil:
		return ExpectOK
	case errors.Is(err, types.ErrDuplicateKey):
		return ExpectDuplicateKey
	case errors.Is(err, types.ErrNotFound):
		return ExpectNotFound
	case errors.Is(err, types.ErrInvalidID):
		return ExpectInvalidID
	default:
		return "error"
	}
}
