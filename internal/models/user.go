package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserDoc is one entry of the credential file. The username is the map key
// in the file and is filled in on load.
type UserDoc struct {
	Username     string `yaml:"-" json:"username"`
	Email        string `yaml:"email" json:"email"`
	Name         string `yaml:"name" json:"name"`
	PasswordHash string `yaml:"password" json:"-"`
	UserID       int    `yaml:"user_id" json:"userId"`
	Role         string `yaml:"role" json:"role"`
}
