// Package gateway implements [session.Gateway] without a real streaming platform.
//
// [Simulated] hands out a configured mock profile per platform after an artificial delay,
// and remembers the sign in as a session row holding an [oauth2.Token]. A remembered
// session is restored only while its token is valid.
//
// Sign in attempts are throttled with a token bucket ([rate.Limiter]), and platforms listed
// in the auth.deny config are always rejected, which makes failure paths easy to exercise.
package gateway
