// Package api is the HTTP surface of the service.
//
// Every route is declared once in a table. Registration chains the same
// stages for each entry, in this order:
//
//	validate -> authenticate -> authorize -> dispatch
//
// A stage that fails returns an error, and the error handler renders it as
// the uniform envelope.
package api
