// Package registrytest holds the behavioral suite every types.Registry
// engine must pass. Engine packages call Run from their own tests.
package registrytest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// Factory returns an empty registry. The suite registers no cleanup of its
// own; factories should use t.Cleanup to release resources.
type Factory func(t *testing.T) types.Registry

// Run executes the full suite against registries built by newRegistry.
func Run(t *testing.T, newRegistry Factory) {
	t.Run("AddThenFind", func(t *testing.T) { testAddThenFind(t, newRegistry) })
	t.Run("DuplicateKey", func(t *testing.T) { testDuplicateKey(t, newRegistry) })
	t.Run("InvalidInput", func(t *testing.T) { testInvalidInput(t, newRegistry) })
	t.Run("RemoveMissing", func(t *testing.T) { testRemoveMissing(t, newRegistry) })
	t.Run("RemoveThenFind", func(t *testing.T) { testRemoveThenFind(t, newRegistry) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newRegistry) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newRegistry) })
	t.Run("Scenario", func(t *testing.T) { testScenario(t, newRegistry) })
	t.Run("RepeatedReads", func(t *testing.T) { testRepeatedReads(t, newRegistry) })
	t.Run("SharedDescription", func(t *testing.T) { testSharedDescription(t, newRegistry) })
	t.Run("ReAddAfterRemove", func(t *testing.T) { testReAddAfterRemove(t, newRegistry) })
	t.Run("PropertyBased", func(t *testing.T) { testPropertyBased(t, newRegistry) })
}

// MustItem builds an item or fails the test.
func MustItem(t testing.TB, id, description, location string) *types.Item {
	t.Helper()
	item, err := types.NewItem(id, description, location)
	require.NoError(t, err)
	return item
}

// Records converts items to their records for comparison across engines
// that return copies rather than the added pointer.
func Records(items []*types.Item) []types.ItemRecord {
	recs := make([]types.ItemRecord, len(items))
	for i, item := range items {
		recs[i] = item.Record()
	}
	return recs
}

func descriptions(items []*types.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Description()
	}
	return out
}

func ids(items []*types.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID()
	}
	return out
}

func testAddThenFind(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	items := []*types.Item{
		MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1"),
		MustItem(t, "ITEM002", "Fan Motor", "Aisle 2, Shelf 5"),
		MustItem(t, "ITEM003", "Relay", ""),
	}
	for _, item := range items {
		require.NoError(t, reg.Add(item))
	}

	for _, want := range items {
		got, err := reg.FindByID(want.ID())
		require.NoError(t, err)
		assert.Equal(t, want.Record(), got.Record())
	}
	assert.Equal(t, len(items), reg.Len())
}

func testDuplicateKey(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	first := MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1")
	require.NoError(t, reg.Add(first))

	tests := []struct {
		name string
		item *types.Item
	}{
		{name: "same record again", item: first},
		{name: "same id, different fields", item: MustItem(t, "ITEM001", "Fan Motor", "Aisle 9")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Add(tt.item)
			assert.ErrorIs(t, err, types.ErrDuplicateKey)
			assert.Contains(t, err.Error(), "ITEM001")

			got, err := reg.FindByID("ITEM001")
			require.NoError(t, err)
			assert.Equal(t, first.Record(), got.Record(), "first record must survive")

			list, err := reg.ListByDescription()
			require.NoError(t, err)
			assert.Equal(t, []string{"LED Light"}, descriptions(list), "description index unchanged")
			assert.Equal(t, 1, reg.Len())
		})
	}
}

func testInvalidInput(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)

	assert.ErrorIs(t, reg.Add(nil), types.ErrInvalidData)
	assert.ErrorIs(t, reg.Add(&types.Item{}), types.ErrInvalidID)
	assert.Equal(t, 0, reg.Len())

	_, err := reg.FindByID("")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func testRemoveMissing(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	kept := MustItem(t, "ITEM002", "Fan Motor", "Aisle 2, Shelf 5")
	require.NoError(t, reg.Add(kept))

	err := reg.Remove("ITEM003")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "ITEM003")

	got, err := reg.FindByID("ITEM002")
	require.NoError(t, err)
	assert.Equal(t, kept.Record(), got.Record())
	assert.Equal(t, 1, reg.Len())
}

func testRemoveThenFind(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	require.NoError(t, reg.Add(MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1")))
	require.NoError(t, reg.Add(MustItem(t, "ITEM002", "Fan Motor", "Aisle 2, Shelf 5")))

	require.NoError(t, reg.Remove("ITEM001"))

	_, err := reg.FindByID("ITEM001")
	assert.ErrorIs(t, err, types.ErrNotFound)

	list, err := reg.ListByDescription()
	require.NoError(t, err)
	assert.Equal(t, []string{"Fan Motor"}, descriptions(list))

	err = reg.Remove("ITEM001")
	assert.ErrorIs(t, err, types.ErrNotFound, "second remove fails")
}

func testListOrder(t *testing.T, newRegistry Factory) {
	tests := []struct {
		name  string
		descs []string
		want  []string
	}{
		{
			name:  "sorted insertion",
			descs: []string{"Fan Motor", "LED Light"},
			want:  []string{"Fan Motor", "LED Light"},
		},
		{
			name:  "reverse insertion",
			descs: []string{"LED Light", "Fan Motor"},
			want:  []string{"Fan Motor", "LED Light"},
		},
		{
			name:  "case-sensitive byte order",
			descs: []string{"bolt", "Washer", "anchor", "Bracket"},
			want:  []string{"Bracket", "Washer", "anchor", "bolt"},
		},
		{
			name:  "prefix sorts first",
			descs: []string{"Fan Motor 2", "Fan", "Fan Motor"},
			want:  []string{"Fan", "Fan Motor", "Fan Motor 2"},
		},
		{
			name:  "empty description sorts first",
			descs: []string{"Relay", ""},
			want:  []string{"", "Relay"},
		},
		{
			name:  "non-ASCII after ASCII",
			descs: []string{"Écrou", "Zinc plate"},
			want:  []string{"Zinc plate", "Écrou"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry(t)
			for i, d := range tt.descs {
				require.NoError(t, reg.Add(MustItem(t, string(rune('A'+i)), d, "loc")))
			}

			list, err := reg.ListByDescription()
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, descriptions(list)); diff != "" {
				t.Errorf("ListByDescription() order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func testListEmpty(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	list, err := reg.ListByDescription()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testScenario(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	item1 := MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1")
	item2 := MustItem(t, "ITEM002", "Fan Motor", "Aisle 2, Shelf 5")

	require.NoError(t, reg.Add(item1))
	require.NoError(t, reg.Add(item2))
	assert.ErrorIs(t, reg.Add(item1), types.ErrDuplicateKey)

	found, err := reg.FindByID("ITEM002")
	require.NoError(t, err)
	assert.Equal(t, "Fan Motor", found.Description())
	assert.Equal(t, "Aisle 2, Shelf 5", found.Location())

	assert.ErrorIs(t, reg.Remove("ITEM003"), types.ErrNotFound)

	list, err := reg.ListByDescription()
	require.NoError(t, err)
	want := []types.ItemRecord{
		{ID: "ITEM002", Description: "Fan Motor", Location: "Aisle 2, Shelf 5"},
		{ID: "ITEM001", Description: "LED Light", Location: "Aisle 3, Shelf 1"},
	}
	if diff := cmp.Diff(want, Records(list)); diff != "" {
		t.Errorf("ListByDescription() mismatch (-want +got):\n%s", diff)
	}
}

func testRepeatedReads(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	require.NoError(t, reg.Add(MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1")))
	require.NoError(t, reg.Add(MustItem(t, "ITEM002", "Fan Motor", "Aisle 2, Shelf 5")))

	first, err := reg.FindByID("ITEM001")
	require.NoError(t, err)
	second, err := reg.FindByID("ITEM001")
	require.NoError(t, err)
	assert.Equal(t, first.Record(), second.Record())

	list1, err := reg.ListByDescription()
	require.NoError(t, err)
	list2, err := reg.ListByDescription()
	require.NoError(t, err)
	assert.Equal(t, Records(list1), Records(list2))
}

func testSharedDescription(t *testing.T, newRegistry Factory) {
	older := func(t *testing.T) *types.Item { return MustItem(t, "A", "Widget", "Bin 1") }
	newer := func(t *testing.T) *types.Item { return MustItem(t, "B", "Widget", "Bin 2") }

	t.Run("newest item occupies the slot", func(t *testing.T) {
		reg := newRegistry(t)
		require.NoError(t, reg.Add(older(t)))
		require.NoError(t, reg.Add(newer(t)))

		list, err := reg.ListByDescription()
		require.NoError(t, err)
		assert.Equal(t, []types.ItemRecord{newer(t).Record()}, Records(list))

		got, err := reg.FindByID("A")
		require.NoError(t, err, "older item stays in the primary index")
		assert.Equal(t, "Bin 1", got.Location())
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("removing the older item keeps the newer one listed", func(t *testing.T) {
		reg := newRegistry(t)
		require.NoError(t, reg.Add(older(t)))
		require.NoError(t, reg.Add(newer(t)))

		require.NoError(t, reg.Remove("A"))

		list, err := reg.ListByDescription()
		require.NoError(t, err)
		assert.Equal(t, []types.ItemRecord{newer(t).Record()}, Records(list))
	})

	t.Run("removing the newer item empties the slot", func(t *testing.T) {
		reg := newRegistry(t)
		require.NoError(t, reg.Add(older(t)))
		require.NoError(t, reg.Add(newer(t)))

		require.NoError(t, reg.Remove("B"))

		list, err := reg.ListByDescription()
		require.NoError(t, err)
		assert.Empty(t, list, "older item is not restored to the slot")

		got, err := reg.FindByID("A")
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Description())
	})

	t.Run("failed duplicate does not steal the slot", func(t *testing.T) {
		reg := newRegistry(t)
		require.NoError(t, reg.Add(older(t)))
		require.NoError(t, reg.Add(MustItem(t, "C", "Gadget", "Bin 3")))

		err := reg.Add(MustItem(t, "C", "Widget", "Bin 4"))
		assert.ErrorIs(t, err, types.ErrDuplicateKey)

		list, err := reg.ListByDescription()
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "A"}, ids(list), "Gadget then Widget")
	})
}

func testReAddAfterRemove(t *testing.T, newRegistry Factory) {
	reg := newRegistry(t)
	require.NoError(t, reg.Add(MustItem(t, "ITEM001", "LED Light", "Aisle 3, Shelf 1")))
	require.NoError(t, reg.Remove("ITEM001"))

	replacement := MustItem(t, "ITEM001", "LED Strip", "Aisle 4, Shelf 2")
	require.NoError(t, reg.Add(replacement), "remove then add acts as update")

	got, err := reg.FindByID("ITEM001")
	require.NoError(t, err)
	assert.Equal(t, replacement.Record(), got.Record())

	list, err := reg.ListByDescription()
	require.NoError(t, err)
	assert.Equal(t, []string{"LED Strip"}, descriptions(list))
}

// model mirrors the registry contract with plain maps.
type model struct {
	byID   map[string]types.ItemRecord
	byDesc map[string]string
}

func testPropertyBased(t *testing.T, newRegistry Factory) {
	if testing.Short() {
		t.Skip("property-based run skipped in short mode")
	}
	rapid.Check(t, func(rt *rapid.T) {
		reg := newRegistry(t)
		m := model{byID: map[string]types.ItemRecord{}, byDesc: map[string]string{}}

		// Small alphabets force ID and description collisions.
		idGen := rapid.StringMatching(`[A-D][0-3]`)
		descGen := rapid.StringMatching(`(Fan|LED|led|Relay)( [ab])?`)

		numOps := rapid.IntRange(1, 60).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			id := idGen.Draw(rt, "id")

			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0: // Add
				desc := descGen.Draw(rt, "desc")
				item, err := types.NewItem(id, desc, "loc-"+id)
				if err != nil {
					rt.Fatalf("NewItem(%s): %v", id, err)
				}
				err = reg.Add(item)
				if _, exists := m.byID[id]; exists {
					if !assert.ErrorIs(rt, err, types.ErrDuplicateKey) {
						rt.FailNow()
					}
					continue
				}
				if err != nil {
					rt.Fatalf("Add(%s): %v", id, err)
				}
				m.byID[id] = types.ItemRecord{ID: id, Description: desc, Location: "loc-" + id}
				m.byDesc[desc] = id

			case 1: // Remove
				err := reg.Remove(id)
				rec, exists := m.byID[id]
				if !exists {
					if !assert.ErrorIs(rt, err, types.ErrNotFound) {
						rt.FailNow()
					}
					continue
				}
				if err != nil {
					rt.Fatalf("Remove(%s): %v", id, err)
				}
				delete(m.byID, id)
				if m.byDesc[rec.Description] == id {
					delete(m.byDesc, rec.Description)
				}

			case 2: // FindByID
				got, err := reg.FindByID(id)
				want, exists := m.byID[id]
				if !exists {
					if !assert.ErrorIs(rt, err, types.ErrNotFound) {
						rt.FailNow()
					}
					continue
				}
				if err != nil {
					rt.Fatalf("FindByID(%s): %v", id, err)
				}
				if got.Record() != want {
					rt.Fatalf("FindByID(%s) = %+v, want %+v", id, got.Record(), want)
				}
			}

			list, err := reg.ListByDescription()
			if err != nil {
				rt.Fatalf("ListByDescription: %v", err)
			}
			if len(list) != len(m.byDesc) {
				rt.Fatalf("listed %d items, want %d", len(list), len(m.byDesc))
			}
			for j, item := range list {
				if j > 0 && list[j-1].Description() > item.Description() {
					rt.Fatalf("list out of order at %d: %q > %q", j, list[j-1].Description(), item.Description())
				}
				if m.byDesc[item.Description()] != item.ID() {
					rt.Fatalf("slot %q holds %s, want %s", item.Description(), item.ID(), m.byDesc[item.Description()])
				}
			}
			if reg.Len() != len(m.byID) {
				rt.Fatalf("Len() = %d, want %d", reg.Len(), len(m.byID))
			}
		}
	})
}
