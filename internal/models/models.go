package models

// User represents a single account in the directory.
// Passwords are stored exactly as supplied; validation performs a
// byte-exact comparison and never hashes. Not suitable for exposure
// without a hardened credential source in front of it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Clone returns an independent copy of the user record
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Directory is the root storage structure
type Directory struct {
	Users map[int64]*User `json:"users"`
}

// NewDirectory creates an empty directory structure
func NewDirectory() *Directory {
	return &Directory{
		Users: make(map[int64]*User),
	}
}

// NewUser creates a new user record
func NewUser(id int64, username, password string) *User {
	return &User{
		ID:       id,
		Username: username,
		Password: password,
	}
}

// DefaultSeed returns the starter accounts used when a backend comes up
// empty and no seed file is configured.
func DefaultSeed() []*User {
	return []*User{
		NewUser(1, "admin", "admin"),
		NewUser(2, "demo", "demo"),
	}
}
