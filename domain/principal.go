package domain

// Principal is the identity established by a successful credential check.
type Principal struct {
	Username string `json:"username"`
}
