// Package domain defines the forum data model shared by the session store, the API layer and the CLI.
//
// Concept-oriented files (user.go, post.go, response.go, validation.go) hold plain types and pure functions.
// Interfaces live on the consumer side.
package domain
