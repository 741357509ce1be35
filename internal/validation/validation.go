// Package validation is the gate every request passes before a service
// sees it.
//
// Requests are bound by echo and then checked with validator struct tags
// plus each type's own Validate rules. Failures become a 400 errs.HTTPError
// listing each offending field by its JSON, query or path name.
package validation
