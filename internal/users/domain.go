package users

// Profile is the self-service projection of an account.
type Profile struct {
	Username string
	Email    string
}

// User is the administrative projection including roles.
type User struct {
	ID       int64
	Username string
	Email    string
	Roles    []string
}
