// Package models defines domain entities and persistence interfaces for the setlist account service.
//
// The package contains two categories of types:
//
// 1. Persistent entities, database-backed models with full lifecycle management:
//   - [User] : Accounts with credential authentication, the onboarding flag, and per-provider link fields
//   - [Session] : Server-side login sessions resolved from the session cookie
//
// 2. Value types:
//   - [ProviderLink] : The credential set (access/refresh token, expiry) tying a user to one music service
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
