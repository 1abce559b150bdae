package roles

import "fmt"

// Role keys known to the back office.
const (
	KeySuperAdmin = "super_admin"
	KeyAdmin      = "admin"
	KeyAnalyst    = "analyst"
)

// FeatureFlags are the boolean capabilities attached to a role.
type FeatureFlags struct {
	CanEditUsers       bool
	CanDeleteUsers     bool
	CanManagePlatforms bool
	CanManageBanks     bool
	CanAdjustBalances  bool
}

// Badge is presentation metadata for a role. Display-layer concern only.
type Badge struct {
	Label string
	Color string
}

// Role describes one entry in the hierarchy. Rank is a strict total order:
// a role may only manage roles with strictly lower rank.
type Role struct {
	Key   string
	Name  string
	Rank  int
	Flags FeatureFlags
	Badge Badge
}

var table = map[string]Role{
	KeySuperAdmin: {
		Key:  KeySuperAdmin,
		Name: "Super Admin",
		Rank: 3,
		Flags: FeatureFlags{
			CanEditUsers:       true,
			CanDeleteUsers:     true,
			CanManagePlatforms: true,
			CanManageBanks:     true,
			CanAdjustBalances:  true,
		},
		Badge: Badge{Label: "SUPER", Color: "#7c3aed"},
	},
	KeyAdmin: {
		Key:  KeyAdmin,
		Name: "Admin",
		Rank: 2,
		Flags: FeatureFlags{
			CanEditUsers:       true,
			CanDeleteUsers:     false,
			CanManagePlatforms: true,
			CanManageBanks:     true,
			CanAdjustBalances:  true,
		},
		Badge: Badge{Label: "ADMIN", Color: "#2563eb"},
	},
	KeyAnalyst: {
		Key:  KeyAnalyst,
		Name: "Analyst",
		Rank: 1,
		Flags: FeatureFlags{},
		Badge: Badge{Label: "ANALYST", Color: "#6b7280"},
	},
}

// Get looks up a role definition. ok is false for unknown keys.
func Get(key string) (Role, bool) {
	role, ok := table[key]
	return role, ok
}

// Flags returns the feature flags for a role. Unknown keys yield the
// all-false set, so permission checks fail closed.
func Flags(key string) FeatureFlags {
	if role, ok := table[key]; ok {
		return role.Flags
	}
	return FeatureFlags{}
}

// Manageable returns every role with rank strictly below the actor's,
// keyed by role key. The lowest rank manages nothing; unknown actors
// manage nothing.
func Manageable(actorKey string) map[string]Role {
	out := map[string]Role{}
	actor, ok := table[actorKey]
	if !ok {
		return out
	}
	for key, role := range table {
		if role.Rank < actor.Rank {
			out[key] = role
		}
	}
	return out
}

// CanManage reports whether actor outranks target. Equal rank is false, so
// a role can never manage itself or a peer.
func CanManage(actorKey, targetKey string) bool {
	actor, ok := table[actorKey]
	if !ok {
		return false
	}
	target, ok := table[targetKey]
	if !ok {
		return false
	}
	return actor.Rank > target.Rank
}

// ValidateAssignment checks that the actor may hand out the assigned role.
// An actor may only assign roles it could also manage.
func ValidateAssignment(actorKey, assignedKey string) error {
	assigned, ok := table[assignedKey]
	if !ok {
		return fmt.Errorf("unknown role %q", assignedKey)
	}
	if !CanManage(actorKey, assignedKey) {
		return fmt.Errorf("role %q cannot assign role %q: assigned rank must be below the actor's", actorKey, assigned.Key)
	}
	return nil
}

// BadgeFor returns badge metadata for the role, falling back to a neutral
// badge for unknown keys.
func BadgeFor(key string) Badge {
	if role, ok := table[key]; ok {
		return role.Badge
	}
	return Badge{Label: "UNKNOWN", Color: "#9ca3af"}
}
