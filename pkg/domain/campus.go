package domain

// Campus is a training venue. Exactly one campus is flagged as the main campus.
type Campus struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	ContactPhone  string    `json:"contact_phone"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	AdminID       *int      `json:"admin_id,omitempty"`
	IsMainCampus  int       `json:"is_main_campus"`
	IsActive      int       `json:"is_active"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at,omitempty"`
}

// CampusInput is the payload for creating or updating a campus.
type CampusInput struct {
	Name          string `json:"name,omitempty"`
	Address       string `json:"address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	IsMainCampus  *bool  `json:"is_main_campus,omitempty"`
}
