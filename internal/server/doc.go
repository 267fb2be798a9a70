// Package server provides HTTP routing, middleware, and the JSON session API.
//
// # Routing
//
// [NewRouter] builds the tunestats API: logging, panic recovery, security headers, an optional per-IP request
// limit, and the session provider, then /healthz and the [SessionHandler] routes.
//
// [BasicRouter] keeps one method table per path, so GET and DELETE on the same path can coexist. Middleware
// added with Use wraps every path registered after it; the first middleware added runs outermost.
//
// # Session API
//
// [SessionHandler] exposes the process-wide session over JSON:
//   - GET /api/session : current [models.SessionState]
//   - POST /api/login?platform=spotify|apple : signs in, 403 when the platform denies it
//   - POST /api/logout : signs out, always 200
//   - GET /api/stats : dashboard statistics, 401 when signed out
//
// The handler finds the session through [auth.FromContext]; the [WithProvider] middleware mounts it on every request.
// A request that reaches the handler without a provider gets a 500 carrying [auth.ErrNoProvider].
//
// # Handler Interface
//
// A [Handler] lists its own paths through Routes and checks methods itself; [SessionHandler] is the only one.
package server
