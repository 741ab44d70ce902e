package artist

// StyleChoice is one favorite style in display order.
type StyleChoice struct {
	StyleID   int64 `json:"style_id" binding:"required" validate:"required"`
	IsPrimary bool  `json:"is_primary"`
}

const (
	minStyles    = 2
	minServices  = 1
	minBodyParts = 1
)

// ValidateStyles rejects selections that can never be valid: duplicates and
// anything other than exactly one primary. Fewer than two styles is allowed
// here; that only makes the profile incomplete.
func ValidateStyles(styles []StyleChoice) error {
	primaries := 0
	ids := make([]int64, 0, len(styles))
	for _, s := range styles {
		if s.IsPrimary {
			primaries++
		}
		ids = append(ids, s.StyleID)
	}
	if err := ensureUnique(ids); err != nil {
		return err
	}
	if primaries != 1 {
		return ErrPrimaryStyleRequired
	}
	return nil
}

// Completeness is the one shared check for "profile counts as complete".
// It returns nil or an *IncompleteError.
func Completeness(styles []StyleChoice, serviceIDs, bodyPartIDs []int64) error {
	var missing []string
	if len(styles) < minStyles {
		missing = append(missing, MissingStyles)
	}
	primaries := 0
	for _, s := range styles {
		if s.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		missing = append(missing, MissingPrimaryStyle)
	}
	if len(serviceIDs) < minServices {
		missing = append(missing, MissingServices)
	}
	if len(bodyPartIDs) < minBodyParts {
		missing = append(missing, MissingBodyParts)
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// Completeness evaluates the stored profile.
func (p *Profile) Completeness() error {
	return Completeness(p.StyleChoices(), p.ServiceIDs(), p.BodyPartIDs())
}

func (p *Profile) StyleChoices() []StyleChoice {
	out := make([]StyleChoice, 0, len(p.Styles))
	for _, s := range p.Styles {
		out = append(out, StyleChoice{StyleID: s.StyleID, IsPrimary: s.IsPrimary})
	}
	return out
}

func ensureUnique(ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return ErrDuplicateID
		}
		seen[id] = struct{}{}
	}
	return nil
}
