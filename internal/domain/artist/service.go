package artist

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PortfolioLimiter is implemented by the subscription service.
type PortfolioLimiter interface {
	CanAddProject(ctx context.Context, userID int64, current int) error
}

type Service struct {
	repo    Repository
	limiter PortfolioLimiter
}

func NewService(repo Repository, limiter PortfolioLimiter) *Service {
	return &Service{repo: repo, limiter: limiter}
}

// WithTx returns a copy bound to tx; used by registration.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{repo: s.repo.WithTx(tx), limiter: s.limiter}
}

// ---- Catalog ----

func (s *Service) ListStyles(ctx context.Context) ([]Style, error) {
	return s.repo.ListStyles(ctx)
}

func (s *Service) ListServices(ctx context.Context) ([]TattooService, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) ListBodyParts(ctx context.Context) ([]BodyPart, error) {
	return s.repo.ListBodyParts(ctx)
}

// ---- Profile ----

func (s *Service) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newProfileView(p), nil
}

func (s *Service) HasProfile(ctx context.Context, userID int64) (bool, error) {
	return s.repo.ExistsForUser(ctx, userID)
}

// CreateProfile stores a new profile with its selections. When requireComplete
// is set an incomplete profile is rejected with *IncompleteError.
func (s *Service) CreateProfile(ctx context.Context, userID int64, in CreateProfileInput, requireComplete bool) (*Profile, error) {
	exists, err := s.repo.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProfileExists
	}
	if !in.WorkArrangement.Valid() {
		return nil, ErrInvalidWorkArrangement
	}
	if in.HourlyRate < 0 || in.MinimumCharge < 0 {
		return nil, ErrInvalidRates
	}
	if err := ValidateStyles(in.Styles); err != nil {
		return nil, err
	}
	if requireComplete {
		if err := Completeness(in.Styles, in.ServiceIDs, in.BodyPartIDs); err != nil {
			return nil, err
		}
	}
	if err := s.checkCatalog(ctx, in.Styles, in.ServiceIDs, in.BodyPartIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Profile{
		UserID:          userID,
		HourlyRate:      in.HourlyRate,
		MinimumCharge:   in.MinimumCharge,
		Currency:        normalizeCurrency(in.Currency),
		WorkArrangement: in.WorkArrangement,
		CreatedAt:       now,
		UpdatedAt:       now,
		Styles:          toProfileStyles(0, in.Styles),
	}
	for _, id := range in.ServiceIDs {
		p.Services = append(p.Services, ProfileService{ServiceID: id})
	}
	for _, id := range in.BodyPartIDs {
		p.BodyParts = append(p.BodyParts, ProfileBodyPart{BodyPartID: id})
	}

	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateRates(ctx context.Context, userID int64, req RatesRequest) (*ProfileView, error) {
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, ErrInvalidRates
		}
		p.HourlyRate = *req.HourlyRate
	}
	if req.MinimumCharge != nil {
		if *req.MinimumCharge < 0 {
			return nil, ErrInvalidRates
		}
		p.MinimumCharge = *req.MinimumCharge
	}
	if req.Currency != nil {
		p.Currency = normalizeCurrency(*req.Currency)
	}
	if req.WorkArrangement != nil {
		if !req.WorkArrangement.Valid() {
			return nil, ErrInvalidWorkArrangement
		}
		p.WorkArrangement = *req.WorkArrangement
	}
	p.UpdatedAt = time.Now()
	if err := s.repo.UpdateRates(ctx, p); err != nil {
		return nil, err
	}
	return newProfileView(p), nil
}

// SetStyles replaces the ordered style list. The profile may end up
// incomplete; the view reports what is missing.
func (s *Service) SetStyles(ctx context.Context, userID int64, styles []StyleChoice) (*ProfileView, error) {
	if err := ValidateStyles(styles); err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, styles, nil, nil); err != nil {
		return nil, err
	}
	rows := toProfileStyles(p.ID, styles)
	if err := s.repo.ReplaceStyles(ctx, p.ID, rows); err != nil {
		return nil, err
	}
	p.Styles = rows
	return newProfileView(p), nil
}

func (s *Service) SetServices(ctx context.Context, userID int64, ids []int64) (*ProfileView, error) {
	if err := ensureUnique(ids); err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, nil, ids, nil); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceServices(ctx, p.ID, ids); err != nil {
		return nil, err
	}
	p.Services = p.Services[:0]
	for _, id := range ids {
		p.Services = append(p.Services, ProfileService{ProfileID: p.ID, ServiceID: id})
	}
	return newProfileView(p), nil
}

func (s *Service) SetBodyParts(ctx context.Context, userID int64, ids []int64) (*ProfileView, error) {
	if err := ensureUnique(ids); err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, nil, nil, ids); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceBodyParts(ctx, p.ID, ids); err != nil {
		return nil, err
	}
	p.BodyParts = p.BodyParts[:0]
	for _, id := range ids {
		p.BodyParts = append(p.BodyParts, ProfileBodyPart{ProfileID: p.ID, BodyPartID: id})
	}
	return newProfileView(p), nil
}

// ---- Portfolio ----

func (s *Service) CreateProject(ctx context.Context, userID int64, in ProjectInput) (*Project, error) {
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.limiter != nil {
		count, err := s.repo.CountProjects(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if err := s.limiter.CanAddProject(ctx, userID, count); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	project := &Project{
		ProfileID:   p.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
		Media:       toMedia(in.Media),
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject replaces the description and the media order.
func (s *Service) UpdateProject(ctx context.Context, userID, projectID int64, in ProjectInput) (*Project, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	project.Title = strings.TrimSpace(in.Title)
	project.Description = strings.TrimSpace(in.Description)
	project.UpdatedAt = time.Now()
	project.Media = toMedia(in.Media)
	if err := s.repo.SaveProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) DeleteProject(ctx context.Context, userID, projectID int64) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, projectID)
}

func (s *Service) ownedProject(ctx context.Context, userID, projectID int64) (*Project, error) {
	p, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	// someone else's project looks the same as a missing one
	if project.ProfileID != p.ID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *Service) checkCatalog(ctx context.Context, styles []StyleChoice, serviceIDs, bodyPartIDs []int64) error {
	styleIDs := make([]int64, 0, len(styles))
	for _, st := range styles {
		styleIDs = append(styleIDs, st.StyleID)
	}
	checks := []struct {
		model any
		ids   []int64
	}{
		{&Style{}, styleIDs},
		{&TattooService{}, serviceIDs},
		{&BodyPart{}, bodyPartIDs},
	}
	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		if err := ensureUnique(c.ids); err != nil {
			return err
		}
		n, err := s.repo.CountExisting(ctx, c.model, c.ids)
		if err != nil {
			return err
		}
		if n != int64(len(c.ids)) {
			return ErrUnknownCatalogID
		}
	}
	return nil
}

func toProfileStyles(profileID int64, styles []StyleChoice) []ProfileStyle {
	rows := make([]ProfileStyle, 0, len(styles))
	for i, st := range styles {
		rows = append(rows, ProfileStyle{
			ProfileID: profileID,
			StyleID:   st.StyleID,
			Position:  i,
			IsPrimary: st.IsPrimary,
		})
	}
	return rows
}

func toMedia(in []MediaInput) []ProjectMedia {
	out := make([]ProjectMedia, 0, len(in))
	for i, m := range in {
		rt := m.ResourceType
		if rt == "" {
			rt = "image"
		}
		out = append(out, ProjectMedia{URL: m.URL, ResourceType: rt, Position: i})
	}
	return out
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return "USD"
	}
	return c
}
