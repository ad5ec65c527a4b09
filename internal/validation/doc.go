// Package validation holds the client-side checks the entity services run
// before any request leaves the process. Every failure is an *Error whose
// message is Spanish, user-facing text naming the violated constraint.
package validation
