// Package auth provides password hashing for PlantBox Core accounts.
//
// Passwords are hashed with Argon2id (OWASP 2025 parameters) and stored in
// PHC string format, which keeps the salt and parameters alongside the hash
// so they can evolve without a schema change.
//
// There is deliberately no token or session machinery here: the mobile API
// contract returns a bare user record on login and carries no credential on
// subsequent calls.
package auth
