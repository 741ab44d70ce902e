package artist

// CreateProfileInput is the artist part of a registration.
type CreateProfileInput struct {
	HourlyRate      int64           `json:"hourly_rate" binding:"gte=0"`
	MinimumCharge   int64           `json:"minimum_charge" binding:"gte=0"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	WorkArrangement WorkArrangement `json:"work_arrangement" binding:"required"`
	Styles          []StyleChoice   `json:"styles" binding:"dive"`
	ServiceIDs      []int64         `json:"service_ids"`
	BodyPartIDs     []int64         `json:"body_part_ids"`
}

type RatesRequest struct {
	HourlyRate      *int64           `json:"hourly_rate"`
	MinimumCharge   *int64           `json:"minimum_charge"`
	Currency        *string          `json:"currency" binding:"omitempty,len=3"`
	WorkArrangement *WorkArrangement `json:"work_arrangement"`
}

type StylesRequest struct {
	Styles []StyleChoice `json:"styles" binding:"required,dive"`
}

type IDsRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

type MediaInput struct {
	URL          string `json:"url" binding:"required,url"`
	ResourceType string `json:"resource_type" binding:"omitempty,oneof=image video"`
}

type ProjectInput struct {
	Title       string       `json:"title" binding:"max=120"`
	Description string       `json:"description" binding:"max=2000"`
	Media       []MediaInput `json:"media" binding:"dive"`
}

// ProfileView is a profile plus its completeness state.
type ProfileView struct {
	*Profile
	IsComplete bool     `json:"is_complete"`
	Missing    []string `json:"missing,omitempty"`
}

func newProfileView(p *Profile) *ProfileView {
	v := &ProfileView{Profile: p, IsComplete: true}
	if err := p.Completeness(); err != nil {
		v.IsComplete = false
		if inc, ok := err.(*IncompleteError); ok {
			v.Missing = inc.Missing
		}
	}
	return v
}
