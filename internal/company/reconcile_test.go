package company

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func item(name string, active bool) ExistingItem {
	return ExistingItem{ID: uuid.New(), Name: name, IsActive: active}
}

func TestReconcileAddsNewNames(t *testing.T) {
	existing := []ExistingItem{item("Remote", true)}

	diff := Reconcile(existing, []string{"Remote", "Hybrid"})

	assert.Equal(t, []string{"Hybrid"}, diff.ToAdd)
	assert.Empty(t, diff.ToDeactivate)
}

func TestReconcileDeactivatesMissingNames(t *testing.T) {
	remote := item("Remote", true)
	onsite := item("Onsite", true)

	diff := Reconcile([]ExistingItem{remote, onsite}, []string{"Remote"})

	assert.Empty(t, diff.ToAdd)
	assert.Equal(t, []uuid.UUID{onsite.ID}, diff.ToDeactivate)
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := []ExistingItem{item("Remote", true), item("Hybrid", true)}

	diff := Reconcile(existing, []string{"Remote", "Hybrid"})

	assert.Empty(t, diff.ToAdd)
	assert.Empty(t, diff.ToDeactivate)
}

func TestReconcileMatchIsCaseSensitive(t *testing.T) {
	existing := []ExistingItem{item("Remote", true)}

	diff := Reconcile(existing, []string{"remote"})

	assert.Equal(t, []string{"remote"}, diff.ToAdd)
	assert.Len(t, diff.ToDeactivate, 1)
}

func TestReconcileSkipsSoftDeletedName(t *testing.T) {
	// A deactivated row whose name reappears is neither re-added nor
	// reactivated; it stays soft-deleted.
	dormant := item("Onsite", false)

	diff := Reconcile([]ExistingItem{dormant}, []string{"Onsite"})

	assert.Empty(t, diff.ToAdd)
	assert.Empty(t, diff.ToDeactivate)
}

func TestReconcileIgnoresInactiveForDeactivation(t *testing.T) {
	dormant := item("Onsite", false)

	diff := Reconcile([]ExistingItem{dormant}, []string{"Remote"})

	assert.Equal(t, []string{"Remote"}, diff.ToAdd)
	assert.Empty(t, diff.ToDeactivate, "already inactive rows are not deactivated again")
}

func TestReconcileCollapsesDuplicateDesiredNames(t *testing.T) {
	diff := Reconcile(nil, []string{"Hybrid", "Hybrid", "Remote"})

	assert.Equal(t, []string{"Hybrid", "Remote"}, diff.ToAdd)
}

func TestReconcileEmptyDesiredDeactivatesAllActive(t *testing.T) {
	a := item("A", true)
	b := item("B", false)
	c := item("C", true)

	diff := Reconcile([]ExistingItem{a, b, c}, nil)

	assert.Empty(t, diff.ToAdd)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, diff.ToDeactivate)
}

func TestReconcileActiveSetEquation(t *testing.T) {
	// active_after = (active_before ∩ desired) ∪ (desired \ all_existing)
	kept := item("Remote", true)
	dropped := item("Onsite", true)
	dormant := item("Hybrid", false)
	existing := []ExistingItem{kept, dropped, dormant}
	desired := []string{"Remote", "Hybrid", "Berlin"}

	diff := Reconcile(existing, desired)

	active := map[string]bool{}
	for _, it := range existing {
		active[it.Name] = it.IsActive
	}
	for _, id := range diff.ToDeactivate {
		for _, it := range existing {
			if it.ID == id {
				active[it.Name] = false
			}
		}
	}
	for _, name := range diff.ToAdd {
		active[name] = true
	}

	assert.True(t, active["Remote"])
	assert.True(t, active["Berlin"])
	assert.False(t, active["Onsite"])
	assert.False(t, active["Hybrid"], "dormant name is not resurrected")
}
