// Package secrets holds the process-wide cryptographic material.
//
// A Manager is constructed once at startup from the configured JWT signing
// secret and the base64-encoded AES encryption key. Tokens are signed with
// the raw signing secret; stored credentials (SMTP passwords, analytics
// keys, OAuth tokens) are sealed with AES-GCM before they reach the
// database and opened on read.
//
// Encrypted values are opaque base64 strings of nonce||ciphertext. A value
// sealed under one key cannot be opened under another; such reads fail with
// ErrCrypto and the caller maps that to an internal error without leaking
// key material.
package secrets
