// Package session resolves a viewer's bearer credential into a Session: the role
// that scopes what the viewer may see and do, a display name and the numeric user
// id used to correlate the viewer with fleet records.
//
// Credentials are decoded, not verified. The backends verify signatures on every
// call; the engine only needs the claims to pick a view and to refuse actions the
// role may not perform before any network call.
//
// Role extraction is an ordered list of extractors evaluated first-match-wins. The
// default list reads the claims role, roles and authorities, then falls back to the
// configured default role (requester). Claim names, the default role and role
// aliases come from ResolverConfig.
package session
