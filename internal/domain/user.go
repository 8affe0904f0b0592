package domain

// User Model
type User struct {
	ID             uint   `gorm:"primaryKey"`                   // Primary key
	Email          string `gorm:"size:50;uniqueIndex;not null"` // Unique email
	Username       string `gorm:"size:50;uniqueIndex;not null"` // Unique username
	FirstName      string `gorm:"size:50;not null"`             // First name
	LastName       string `gorm:"size:50;not null"`             // Last name
	HashedPassword string `gorm:"not null"`                     // Bcrypt hash
	IsAdmin        bool   `gorm:"not null;default:false"`       // Admin flag
}

// UserProfile is the public view of a user, without the password hash
type UserProfile struct {
	ID        uint   `json:"id"`         // User ID
	Email     string `json:"email"`      // Email
	Username  string `json:"username"`   // Username
	FirstName string `json:"first_name"` // First name
	LastName  string `json:"last_name"`  // Last name
	IsAdmin   bool   `json:"is_admin"`   // Admin flag
}

// Profile returns the public fields of the user
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
