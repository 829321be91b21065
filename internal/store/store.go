// ABOUTME: Store interfaces and data types for cortex-api persistence
// ABOUTME: Defines User, PublicKey, LoginAttempt structs and the store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user with an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrSetupAlreadyCompleted is returned when trying to complete setup a second time.
var ErrSetupAlreadyCompleted = errors.New("setup already completed")

// ErrKeyActive is returned when trying to delete a public key that is still active.
var ErrKeyActive = errors.New("public key is active")

// User represents an account that can authenticate against the API.
type User struct {
	UID          string
	Email        string
	PasswordHash string // bcrypt hash
	FirstName    string
	LastName     string
	Role         string // viewer, writer, editor, admin
	IsActive     bool
	LastSeen     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate enumerates the mutable fields of a user. Nil fields are left
// unchanged; set fields are written as given. PasswordHash carries a
// ready-made hash, never a plaintext password.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Role         *string
	IsActive     *bool
}

// PublicKey represents a machine API key. The Key column holds the opaque
// key value presented by callers in the X-Public-Key header.
type PublicKey struct {
	UID         string
	Key         string
	Name        string
	Description string
	IsActive    bool
	AllowedIPs  []string
	ExpiresAt   *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	LastUsedAt  *time.Time
	Metadata    map[string]any
}

// PublicKeyUpdate enumerates the mutable fields of a machine key. Nil
// fields are left unchanged; set fields are written as given. The key
// value itself and created_by/created_at never change after creation.
type PublicKeyUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
	AllowedIPs  []string
	ExpiresAt   *time.Time
	Metadata    map[string]any
}

// LoginAttempt represents a single authentication attempt, successful or not.
// Identifier is the account UID when the email matched an account, otherwise
// the submitted email.
type LoginAttempt struct {
	ID         string
	Identifier string
	IPAddress  string
	UserAgent  string
	Success    bool
	CreatedAt  time.Time
}

// Setting keys stored in the settings table.
const (
	SettingSetupCompleted = "setup_completed"
	SettingSelfSignup     = "self_signup"
)

// Config record kinds stored as replace-on-write singletons.
const (
	ConfigWhiteLabel = "whitelabel"
	ConfigSMTP       = "smtp"
	ConfigAnalytics  = "analytics"
	ConfigMailToken  = "mail_token"
)

// WhiteLabel holds branding configuration shown by frontends.
type WhiteLabel struct {
	AppName      string `json:"appName"`
	LogoURL      string `json:"logoUrl"`
	PrimaryColor string `json:"primaryColor"`
}

// SMTPConfig holds the outbound mail server configuration.
// Password is stored encrypted; the store treats it as opaque.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Sender   string `json:"sender"`
	UseTLS   bool   `json:"useTls"`
}

// AnalyticsConfig holds the analytics integration configuration.
// APIKey is stored encrypted; the store treats it as opaque.
type AnalyticsConfig struct {
	Provider string `json:"provider"`
	SiteID   string `json:"siteId"`
	APIKey   string `json:"apiKey"`
	Enabled  bool   `json:"enabled"`
}

// MailToken holds an OAuth access token for the mail integration.
// Token is stored encrypted; the store treats it as opaque.
type MailToken struct {
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserStore defines the interface for account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, uid string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, uid string, update UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, uid string) error
	TouchUserLastSeen(ctx context.Context, uid string) error
	CountAdmins(ctx context.Context) (int, error)
}

// PublicKeyStore defines the interface for machine API key persistence.
type PublicKeyStore interface {
	CreatePublicKey(ctx context.Context, key *PublicKey) error
	GetPublicKey(ctx context.Context, uid string) (*PublicKey, error)
	GetPublicKeyByValue(ctx context.Context, value string) (*PublicKey, error)
	ListPublicKeys(ctx context.Context) ([]*PublicKey, error)
	UpdatePublicKey(ctx context.Context, uid string, update PublicKeyUpdate) (*PublicKey, error)
	DeletePublicKey(ctx context.Context, uid string) error
	TouchPublicKey(ctx context.Context, uid string) error
}

// LoginStore defines the interface for the append-only login audit trail.
type LoginStore interface {
	SaveLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	ListLoginAttempts(ctx context.Context, limit int) ([]*LoginAttempt, error)
}

// SettingsStore defines the interface for operational flags.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	IsSetupCompleted(ctx context.Context) (bool, error)
	CompleteSetup(ctx context.Context) error
}

// ConfigStore defines the interface for replace-on-write configuration
// singletons (branding, SMTP, analytics, mail token).
type ConfigStore interface {
	GetConfigRecord(ctx context.Context, kind string, out any) error
	SetConfigRecord(ctx context.Context, kind string, value any) error
}
