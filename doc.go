// Package auth is the credential validation and account-persistence engine
// behind the signup/login endpoints of the lodging app.
//
// The pieces compose bottom up:
//   - ValidatePassword applies the per-rule password policy and reports every
//     rule that failed, so callers can render one hint per rule.
//   - UserStore is the durable record of registered users. It guarantees
//     unique emails (case-insensitive) and monotonic integer ids, and ships
//     with an in-memory, a flat-file, and a Bun/SQL implementation.
//   - Hasher wraps bcrypt for one-way credential storage.
//   - TokenService signs and validates the HS256 session tokens. It refuses
//     to operate without a signing key.
//   - Auther ties the above into Signup and Login. Every call terminates in
//     exactly one of: success, validation error, conflict, auth error, or
//     storage error; a failed signup leaves no record and no token behind.
//
// AuthController exposes the two operations over HTTP for the outer routing
// layer; everything presentational lives outside this module.
package auth
