// Package client holds the contracts between the EchoVault core and its
// external collaborators, plus local database bootstrap.
//
// # Capabilities
//
//   - Identity: current session lookup, a push feed of session changes,
//     sign-in by provider name and sign-out.
//   - Records: per-owner query, insert and delete of memory entries.
//
// Implementations live elsewhere: identity.Provider for Identity,
// entries.SQLiteRepository and entries.PostgresRepository for Records.
//
// # Databases
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations. OpenRecordsDB does the same for a Postgres record service.
package client
