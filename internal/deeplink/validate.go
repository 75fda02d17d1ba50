package deeplink

import "regexp"

// Identifier rule shared by session and notification IDs: 1-100
// characters of letters, digits, hyphen or underscore.
var identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)

// IsValidSessionID reports whether id is a well-formed session identifier.
func IsValidSessionID(id string) bool {
	return identifierRe.MatchString(id)
}

// IsValidNotificationID reports whether id is a well-formed notification
// identifier. Same rule as session identifiers.
func IsValidNotificationID(id string) bool {
	return identifierRe.MatchString(id)
}

// validateSessionQuery accepts the query map unless an "id" fallback is
// present and malformed.
func validateSessionQuery(params map[string]string) bool {
	id, ok := params["id"]
	if !ok {
		return true
	}
	return IsValidSessionID(id)
}

// validateNotificationQuery accepts the query map unless an "id" filter
// is present and malformed.
func validateNotificationQuery(params map[string]string) bool {
	id, ok := params["id"]
	if !ok {
		return true
	}
	return IsValidNotificationID(id)
}
