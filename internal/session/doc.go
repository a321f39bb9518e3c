// Package session holds the client-side record of the logged-in user.
//
// Model is the in-memory state with its four mutations and no storage dependency. Store composes a Model with a
// Persister and writes the durable subset ({user, isLoggedIn}) after every mutation that changes it.
package session
