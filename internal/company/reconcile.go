package company

import (
	"github.com/google/uuid"
)

// ExistingItem is the slice of a config row the reconciler needs.
type ExistingItem struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// Diff is the outcome of reconciling one category: names to insert and ids of
// active rows to soft-delete. Renames and hard deletes never happen.
type Diff struct {
	ToAdd        []string
	ToDeactivate []uuid.UUID
}

// Reconcile computes the additive/soft-delete diff between a company's
// current config items and the caller's desired name list.
//
// Matching is by exact, case-sensitive name and ignores the active flag: a
// desired name that only exists as a soft-deleted row is skipped, not
// reactivated and not re-added. Duplicates in desired collapse to one entry.
func Reconcile(existing []ExistingItem, desired []string) Diff {
	existingNames := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		existingNames[item.Name] = struct{}{}
	}

	desiredSet := make(map[string]struct{}, len(desired))
	var toAdd []string
	for _, name := range desired {
		if _, dup := desiredSet[name]; dup {
			continue
		}
		desiredSet[name] = struct{}{}
		if _, ok := existingNames[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}

	var toDeactivate []uuid.UUID
	for _, item := range existing {
		if !item.IsActive {
			continue
		}
		if _, ok := desiredSet[item.Name]; !ok {
			toDeactivate = append(toDeactivate, item.ID)
		}
	}

	return Diff{ToAdd: toAdd, ToDeactivate: toDeactivate}
}
