// Package models defines domain entities and persistence interfaces for tunestats.
//
// The package contains three categories of types:
//
// 1. Session types: the in-memory view of who is signed in
//   - [Platform] : The streaming platform a user signed in with (spotify or apple)
//   - [SessionState] : Current user, derived authentication flag and loading flag
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : Mock platform profiles handed out by the simulated gateway
//   - [SessionRecord] : The remembered sign in, carrying a simulated access token
//
// 3. Dashboard DTOs: Listening statistics rendered by the views
//   - [Dashboard], [TopTrack], [TopArtist], [GenreShare], [Overview]
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
