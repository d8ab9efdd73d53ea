package auth

// Authorize decides whether claims may access a route that declares
// required roles. No required roles means allow. Otherwise the claim must
// be present and its role listed exactly; admin does not imply user.
func Authorize(claims AuthClaims, required []Role) error {
	if len(required) == 0 {
		return nil
	}

	if claims == nil {
		return ErrForbidden
	}

	for _, role := range required {
		if claims.HasRole(string(role)) {
			return nil
		}
	}

	return ErrForbidden
}

// Allowed is the boolean form of Authorize
func Allowed(claims AuthClaims, required ...Role) bool {
	return Authorize(claims, required) == nil
}
