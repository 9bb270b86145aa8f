package types

// Keys under which the authorization middleware stores request state in the
// gin context.
const (
	ContextUserKey    = "user"
	ContextProjectKey = "project"
)
