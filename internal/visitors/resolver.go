// Package visitors derives the canonical visitor identity from an event's
// actor fields. Every aggregation that counts or groups by visitor must go
// through this package, either via Resolve or via IDExpr in SQL, so the
// coalescing rule cannot drift between components.
package visitors

// IDExpr is the SQL expression that resolves a row's visitor id with the
// same precedence as Resolve: user_id if non-empty, else anonymous_id.
// Rows where it evaluates to NULL have no visitor and must be excluded
// from visitor-keyed aggregations.
const IDExpr = "COALESCE(NULLIF(user_id, ''), NULLIF(anonymous_id, ''))"

// Resolve returns the canonical visitor id for the given actor fields.
// UserID takes precedence over AnonymousID; ok is false when neither is
// set, meaning the event carries no visitor identity.
func Resolve(userID, anonymousID string) (id string, ok bool) {
	if userID != "" {
		return userID, true
	}
	if anonymousID != "" {
		return anonymousID, true
	}
	return "", false
}
