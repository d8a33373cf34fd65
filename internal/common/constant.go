// Package common contains shared constants, sentinel errors and the error
// taxonomy used across EchoVault client layers.
package common

// Preference keys persisted in the local metadata store. The names match the
// keys the web client kept in localStorage so exported settings stay readable.
const (
	ThemePreferenceKey     = "echovault-theme"
	NightModePreferenceKey = "echovault-night-mode"
)

// Metadata keys owned by the local identity provider.
const (
	SessionTokenKey  = "session_token"
	SessionSecretKey = "session_secret"
	AccountKeyPrefix = "account:"
)

// PasswordProvider is the name of the built-in email/password sign-in provider.
const PasswordProvider = "password"
