// Package metakey gives the meta table's string keys a closed set of kinds.
// Keys are built and parsed here exclusively; nothing else in the codebase
// concatenates meta-key strings. The export safelist is a match over kinds,
// not a prefix comparison at call sites.
package metakey

import "strings"

// Kind identifies what a meta key stores.
type Kind int

const (
	KindUnknown Kind = iota
	// KindSchemaVersion is the device-local schema version marker.
	KindSchemaVersion
	// KindLastTransaction holds per-session defaults for the next
	// transaction form. Device-local.
	KindLastTransaction
	// KindBudgetNotified marks that a budget-limit notification fired for a
	// (budget, month) pair. Portable.
	KindBudgetNotified
	// KindGoalNotified marks that a goal-reached notification fired.
	// Portable.
	KindGoalNotified
)

const (
	prefixSchemaVersion   = "schema_version_"
	prefixLastTransaction = "last_transaction_"
	prefixBudgetNotified  = "budget_notified_"
	prefixGoalNotified    = "goal_notified_"
)

// Key is a parsed or constructed meta key.
type Key struct {
	Kind        Kind
	WorkspaceID string
	// Suffix carries the kind-specific payload: "<budgetID>_<month>" for
	// budget notifications, "<goalID>" for goal notifications, empty
	// otherwise.
	Suffix string
}

// SchemaVersion builds the device-local schema version key for a workspace.
func SchemaVersion(workspaceID string) Key {
	return Key{Kind: KindSchemaVersion, WorkspaceID: workspaceID}
}

// LastTransaction builds the session-local transaction defaults key.
func LastTransaction(workspaceID string) Key {
	return Key{Kind: KindLastTransaction, WorkspaceID: workspaceID}
}

// BudgetNotified builds the notification marker key for a budget and month.
func BudgetNotified(workspaceID, budgetID, month string) Key {
	return Key{Kind: KindBudgetNotified, WorkspaceID: workspaceID, Suffix: budgetID + "_" + month}
}

// GoalNotified builds the notification marker key for a goal.
func GoalNotified(workspaceID, goalID string) Key {
	return Key{Kind: KindGoalNotified, WorkspaceID: workspaceID, Suffix: goalID}
}

// String renders the key in its stored form.
func (k Key) String() string {
	switch k.Kind {
	case KindSchemaVersion:
		return prefixSchemaVersion + k.WorkspaceID
	case KindLastTransaction:
		return prefixLastTransaction + k.WorkspaceID
	case KindBudgetNotified:
		return prefixBudgetNotified + k.WorkspaceID + "_" + k.Suffix
	case KindGoalNotified:
		return prefixGoalNotified + k.WorkspaceID + "_" + k.Suffix
	default:
		return ""
	}
}

// Exportable reports whether this key kind may cross the snapshot
// export/import boundary. Everything outside the notification markers is
// device- or session-local.
func (k Key) Exportable() bool {
	switch k.Kind {
	case KindBudgetNotified, KindGoalNotified:
		return true
	default:
		return false
	}
}

// Parse classifies a stored key string. Unrecognized keys come back with
// KindUnknown and an empty workspace id.
func Parse(raw string) Key {
	switch {
	case strings.HasPrefix(raw, prefixSchemaVersion):
		return Key{Kind: KindSchemaVersion, WorkspaceID: strings.TrimPrefix(raw, prefixSchemaVersion)}
	case strings.HasPrefix(raw, prefixLastTransaction):
		return Key{Kind: KindLastTransaction, WorkspaceID: strings.TrimPrefix(raw, prefixLastTransaction)}
	case strings.HasPrefix(raw, prefixBudgetNotified):
		return splitWorkspace(KindBudgetNotified, strings.TrimPrefix(raw, prefixBudgetNotified))
	case strings.HasPrefix(raw, prefixGoalNotified):
		return splitWorkspace(KindGoalNotified, strings.TrimPrefix(raw, prefixGoalNotified))
	default:
		return Key{Kind: KindUnknown}
	}
}

// splitWorkspace separates "<workspaceID>_<suffix>". Workspace ids are UUIDs
// and never contain underscores, so the first underscore is the boundary.
func splitWorkspace(kind Kind, rest string) Key {
	parts := strings.SplitN(rest, "_", 2)
	k := Key{Kind: kind, WorkspaceID: parts[0]}
	if len(parts) == 2 {
		k.Suffix = parts[1]
	}
	return k
}
