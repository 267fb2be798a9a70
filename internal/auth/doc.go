// Package auth mounts the session store for the views.
//
// A [Provider] is built once in main around the configured gateway and carried in a
// [context.Context] with [WithProvider]. Views look it up with [FromContext], which fails
// with [ErrNoProvider] when nothing was mounted.
package auth
