package healthsdk

import "time"

// Role values as reported by the backend. The mobile core treats the role as
// an opaque label; role-based menu filtering happens in the UI layer.
const (
	RoleMother       = "mother"
	RoleHealthWorker = "health_worker"
	RoleAdmin        = "admin"
)

// UserProfile is the authenticated account's identity data. Scoped to exactly
// one session: it must never be read across an account change on the same
// device.
type UserProfile struct {
	ID       string          `json:"id"`
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone,omitempty"`
	Role     string          `json:"role"`
	Patient  *PatientProfile `json:"patient,omitempty"`
}

// PatientProfile is the optional maternal sub-profile attached to a user.
type PatientProfile struct {
	DueDate          *time.Time `json:"due_date,omitempty"`
	BloodType        string     `json:"blood_type,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	ClinicName       string     `json:"clinic_name,omitempty"`
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched by the server and by the local merge.
type ProfilePatch struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Merge applies the patch to a copy of p and returns it.
func (p UserProfile) Merge(patch ProfilePatch) UserProfile {
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	return p
}

// PatientPatch carries a partial patient sub-profile update.
type PatientPatch struct {
	DueDate          *time.Time `json:"due_date,omitempty"`
	BloodType        *string    `json:"blood_type,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	ClinicName       *string    `json:"clinic_name,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthPayload is the data object returned by login and register.
type AuthPayload struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"` // seconds
	User      UserProfile `json:"user"`
}

// HealthResponse is the data object returned by GET /livez.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
