// Package app wires the forum client together from configuration: session storage, the request pipeline, the
// API layer and the development proxy all share one metrics registry and one clock.
package app
