// Package auth implements authentication and authorization for cortex-api.
//
// # Overview
//
// Three gates protect the API surface:
//
//   - Bearer tokens: TokenService issues and validates HMAC-signed JWTs;
//     Resolver turns a valid token into an active user account; Middleware
//     wires both into the request context.
//   - Roles: accounts carry one label from the closed set viewer < writer
//     < editor < admin. RequireRole admits accounts at or above the highest
//     level named by the route.
//   - Machine keys: PublicKeyGate admits machine callers presenting an
//     active, unexpired key in the X-Public-Key header, optionally pinned
//     to an IP allow-list.
//
// # Failure messages
//
// Mid-session failures distinguish a bad token ("Token is invalid.") from
// an account that vanished or was deactivated after the token was issued
// ("User not found or not active anymore."). Login itself never makes that
// distinction; the login handler collapses every failure into one message.
//
// # Audit
//
// LoginRecorder appends exactly one record per login attempt, successful
// or not. Audit writes are best effort: a failed write is logged and the
// login response proceeds unchanged.
package auth
