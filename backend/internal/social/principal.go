package social

// Principal is the authenticated caller context supplied per call by the
// external identity layer. The engine never authenticates; it only enforces
// the flags it is handed.
type Principal struct {
	UserUID         string
	IsAuthenticated bool
	IsVerified      bool
}

// Anonymous is the principal of an unauthenticated request
var Anonymous = Principal{}
