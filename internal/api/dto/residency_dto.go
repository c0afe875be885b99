package dto

// ResidencyResponse describes a residency.
type ResidencyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CapacityResponse reports per-role limits and free places.
type CapacityResponse struct {
	MaxUsers        int `json:"maxUsers"`
	MaxAdmins       int `json:"maxAdmins"`
	RemainingUsers  int `json:"remainingUsers"`
	RemainingAdmins int `json:"remainingAdmins"`
}

// ResidencyInfoResponse is a residency with its members by role.
type ResidencyInfoResponse struct {
	Residency ResidencyResponse `json:"residency"`
	Users     []UserResponse    `json:"users"`
	Admins    []UserResponse    `json:"admins"`
	Capacity  CapacityResponse  `json:"capacity"`
}
