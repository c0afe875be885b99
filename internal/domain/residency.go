package domain

// Residency represents a housing community. It is the tenancy boundary for
// users and complaints and is never modified after seeding.
type Residency struct {
	ID    string
	Name  string
	Phone string
	Email string
}
