package model

type Role string

const (
	RoleUser      = Role("user")
	RoleAssistant = Role("assistant")
)

// ParseRole normalizes every role that is not the user role to the assistant role.
func ParseRole(s string) Role {
	if s == string(RoleUser) {
		return RoleUser
	}
	return RoleAssistant
}
