// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web pages of the dashboard:
//  1. [LandingView] : Pitch screen with a platform theme toggle
//  2. [LoginView] : Modal with Spotify / Apple Music tabs and a connect action
//  3. [DashboardView] : Overview cards plus Top Tracks, Top Artists and Genres tabs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Session changes flow through a latest-value channel from [auth.Provider.Watch]; navigation between views is a
// reaction to those messages, so the store never knows about views.
//
// Keyboard navigation uses single-key bindings (s/a, enter, esc, t, l, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
