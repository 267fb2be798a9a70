// Package session holds the client-side authentication state machine.
//
// A [Store] owns exactly one [models.SessionState] and is the only place it changes.
// The three mutating entry points are serialized:
//
//  1. [Store.Initialize] : restores a remembered user through [Gateway.CurrentUser].
//     Concurrent callers share one lookup; once resolved, further calls are no-ops.
//  2. [Store.Login] : marks the state loading, waits on [Gateway.LoginWithPlatform],
//     then settles on the new user or back on the previous one.
//  3. [Store.Logout] : clears the user immediately and asks the gateway to forget it.
//
// # Ordering
//
// Every mutating call takes a new generation number. A suspended Initialize or Login
// only applies its result when its generation is still the newest one, so a login that
// resolves after a later logout is dropped instead of signing the user back in.
//
// # Errors
//
//   - [LookupError] : Initialize could not read the remembered session; the store settles unauthenticated.
//   - [LoginError] : returned to the Login caller; the loading flag is always reset.
//   - [LogoutClearError] : logged and dropped; the local logout always succeeds.
//
// # Observers
//
// [Store.Subscribe] registers a listener that receives one snapshot per visible change,
// in the order the changes were made.
package session
