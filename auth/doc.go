// Package auth implements the stateless authentication and authorization
// pipeline for the garden maintenance admin backend: HS256 bearer tokens,
// bcrypt credential verification, per-request identity resolution, and a
// declarative route access policy. Tokens carry only the subject (username);
// roles and profile data are resolved fresh from the credential store on
// every request, so the signing secret is the only persisted trust anchor.
package auth
