package wizard

// Step rules are validator tags checked against the step's own fields. A
// field listed in Rules must be present; steps without rules are optional.
type Step struct {
	Key   string
	Rules map[string]string
}

type Flow struct {
	Name  string
	Steps []Step
}

var (
	emailStep    = Step{Key: "email", Rules: map[string]string{"email": "required,email"}}
	passwordStep = Step{Key: "password", Rules: map[string]string{"password": "required,min=8,max=72"}}
	usernameStep = Step{Key: "username", Rules: map[string]string{"username": "required,min=3,max=30"}}
	nameStep     = Step{Key: "display_name", Rules: map[string]string{"display_name": "required,max=80"}}
	avatarStep   = Step{Key: "avatar"}
	cityStep     = Step{Key: "city", Rules: map[string]string{"city": "required"}}
	socialsStep  = Step{Key: "socials"}
)

// LoverFlow is the 8-step tattoo-lover registration.
var LoverFlow = Flow{
	Name: "lover_registration",
	Steps: []Step{
		emailStep,
		passwordStep,
		usernameStep,
		nameStep,
		avatarStep,
		cityStep,
		socialsStep,
		{Key: "terms", Rules: map[string]string{"accepted_terms": "eq=true"}},
	},
}

// ArtistFlow is the 13-step artist registration; its last five steps
// collect the artist profile.
var ArtistFlow = Flow{
	Name: "artist_registration",
	Steps: []Step{
		emailStep,
		passwordStep,
		usernameStep,
		nameStep,
		avatarStep,
		cityStep,
		{Key: "bio"},
		socialsStep,
		{Key: "work_arrangement", Rules: map[string]string{"work_arrangement": "required,oneof=studio guest private traveling"}},
		{Key: "rates", Rules: map[string]string{"hourly_rate": "gte=0", "minimum_charge": "gte=0"}},
		{Key: "styles", Rules: map[string]string{"styles": "min=2"}},
		{Key: "services", Rules: map[string]string{"service_ids": "min=1"}},
		{Key: "body_parts", Rules: map[string]string{"body_part_ids": "min=1"}},
	},
}

// StudioFlow is the 8-step studio setup.
var StudioFlow = Flow{
	Name: "studio_setup",
	Steps: []Step{
		{Key: "name", Rules: map[string]string{"name": "required,min=2,max=120"}},
		{Key: "logo"},
		{Key: "description", Rules: map[string]string{"description": "required,max=2000"}},
		{Key: "location", Rules: map[string]string{"address": "required", "city": "required"}},
		socialsStep,
		{Key: "styles", Rules: map[string]string{"style_ids": "min=1"}},
		{Key: "services", Rules: map[string]string{"service_ids": "min=1"}},
		{Key: "invite"},
	},
}

func (f Flow) index(key string) int {
	for i, s := range f.Steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}
