package domain

import "time"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// MinPasswordLength is enforced on registration and every password change.
const MinPasswordLength = 6

// Interests a traveller can pick from.
var Interests = []string{"wildlife", "culture", "beach", "adventure", "food", "history", "nightlife", "shopping"}

// NotificationSettings toggles per-channel notifications.
type NotificationSettings struct {
	Email bool `json:"email" bson:"email"`
	Push  bool `json:"push" bson:"push"`
	SMS   bool `json:"sms" bson:"sms"`
}

// Budget is a travel budget range in the user's preferred currency.
type Budget struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Preferences holds per-user travel preferences.
type Preferences struct {
	Language      string               `json:"language" bson:"language"`
	Currency      string               `json:"currency" bson:"currency"`
	Notifications NotificationSettings `json:"notifications" bson:"notifications"`
	Interests     []string             `json:"interests" bson:"interests"`
	Budget        Budget               `json:"budget" bson:"budget"`
}

// DefaultPreferences returns the preferences applied to a fresh account.
func DefaultPreferences() Preferences {
	return Preferences{
		Language: "en",
		Currency: "KES",
		Notifications: NotificationSettings{
			Email: true,
			Push:  true,
			SMS:   false,
		},
	}
}

// TravelEntry records one past trip.
type TravelEntry struct {
	Destination string    `json:"destination" bson:"destination"`
	VisitDate   time.Time `json:"visit_date" bson:"visit_date"`
	Duration    int       `json:"duration" bson:"duration"`
	Rating      int       `json:"rating" bson:"rating"`
}

// EmergencyContact is who to reach when a traveller is in trouble.
type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// User is the central account aggregate. The password field holds the bcrypt
// hash, never a raw password, and is excluded from JSON along with every
// other security-sensitive field.
type User struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	FirstName    string     `json:"first_name" bson:"first_name"`
	LastName     string     `json:"last_name" bson:"last_name"`
	Email        string     `json:"email" bson:"email"`
	Password     string     `json:"-" bson:"password,omitempty"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Nationality  string     `json:"nationality,omitempty" bson:"nationality,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	ProfileImage string     `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	Role         string     `json:"role" bson:"role"`

	IsEmailVerified         bool       `json:"is_email_verified" bson:"is_email_verified"`
	EmailVerificationToken  string     `json:"-" bson:"email_verification_token,omitempty"`
	EmailVerificationExpire *time.Time `json:"-" bson:"email_verification_expire,omitempty"`
	PasswordResetToken      string     `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpire     *time.Time `json:"-" bson:"password_reset_expire,omitempty"`

	Preferences      Preferences      `json:"preferences" bson:"preferences"`
	TravelHistory    []TravelEntry    `json:"travel_history,omitempty" bson:"travel_history,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`

	IsActive      bool       `json:"is_active" bson:"is_active"`
	LastLogin     *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	LoginAttempts int        `json:"-" bson:"login_attempts,omitempty"`
	LockUntil     *time.Time `json:"-" bson:"lock_until,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsLocked reports whether the account is currently locked out. A lock in
// the past counts as no lock at all.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// ValidRole reports whether role is one of the known role tags.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleModerator
}
