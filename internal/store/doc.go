// Package store provides persistence for cortex-api.
//
// # Overview
//
// The store keeps five kinds of state: user accounts, machine API keys,
// the append-only login audit trail, operational settings (the one-shot
// setup flag and the self-signup switch), and replace-on-write
// configuration singletons (branding, SMTP, analytics, mail token).
//
// Each concern has its own small interface (UserStore, PublicKeyStore,
// LoginStore, SettingsStore, ConfigStore); SQLiteStore implements all of
// them on a single database handle so consumers can depend on exactly the
// methods they use.
//
// # SQLite conventions
//
// The schema is created on open and migrations are idempotent. Timestamps
// are stored as RFC3339 UTC text. List-valued and map-valued columns
// (allowed IPs, key metadata, config payloads) are JSON text. Missing rows
// surface as ErrNotFound; unique-constraint violations on user email
// surface as ErrEmailExists.
//
// # Secrets at rest
//
// The store never sees plaintext credentials: password hashes arrive
// pre-hashed and SMTP passwords, analytics keys, and mail tokens arrive
// pre-encrypted. Encryption is the caller's job (internal/secrets).
package store
