// Package schema validates untrusted request input before it reaches a
// service.
//
// A RuleSet names the path parameters, query parameters and body payload
// an operation accepts. RuleSet.Validate decodes the body one field at a
// time, coerces parameters explicitly, applies defaults and runs the
// payload rules, and reports every violation in a single nested map:
//
//	{
//	  "email": "Invalid email format",
//	  "position": {"x": "x is required"},
//	  "params": {"id": "must be a positive integer"}
//	}
//
// Payloads built with a partial constructor (the update variants) drop
// presence rules and defaults but keep every format and range rule.
package schema
