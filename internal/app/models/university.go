package models

// Scholarship is one funding opportunity listed for a university
type Scholarship struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Notes string `json:"notes" yaml:"notes"`
}

// University is a catalog entry. Catalog entries are read-only; custom
// entries are added by agents and merged into the same list at runtime.
type University struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Location     string        `json:"location" yaml:"location"`
	Deadline     string        `json:"deadline" yaml:"deadline"`
	AppFee       string        `json:"app_fee" yaml:"app_fee"`
	Tuition      string        `json:"tuition" yaml:"tuition"`
	RoomBoard    string        `json:"room_board" yaml:"room_board"`
	Scholarships []Scholarship `json:"scholarships" yaml:"scholarships"`
	Insights     string        `json:"insights" yaml:"insights"`
	WebsiteURL   string        `json:"website_url,omitempty" yaml:"website_url,omitempty"`
	Custom       bool          `json:"custom" yaml:"-"`
}
