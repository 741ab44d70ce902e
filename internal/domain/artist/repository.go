package artist

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Catalog
	ListStyles(ctx context.Context) ([]Style, error)
	ListServices(ctx context.Context) ([]TattooService, error)
	ListBodyParts(ctx context.Context) ([]BodyPart, error)
	CountExisting(ctx context.Context, model any, ids []int64) (int64, error)

	// Profile
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error)
	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	UpdateRates(ctx context.Context, p *Profile) error
	ReplaceStyles(ctx context.Context, profileID int64, styles []ProfileStyle) error
	ReplaceServices(ctx context.Context, profileID int64, serviceIDs []int64) error
	ReplaceBodyParts(ctx context.Context, profileID int64, bodyPartIDs []int64) error

	// Portfolio
	CountProjects(ctx context.Context, profileID int64) (int, error)
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	SaveProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) ListStyles(ctx context.Context) ([]Style, error) {
	var out []Style
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListServices(ctx context.Context) ([]TattooService, error) {
	var out []TattooService
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListBodyParts(ctx context.Context) ([]BodyPart, error) {
	var out []BodyPart
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) CountExisting(ctx context.Context, model any, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *repository) CreateProfile(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Preload("Styles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Services").
		Preload("BodyParts").
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Projects.Media", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtistProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateRates(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Model(p).
		Select("hourly_rate", "minimum_charge", "currency", "work_arrangement", "updated_at").
		Updates(p).Error
}

func (r *repository) ReplaceStyles(ctx context.Context, profileID int64, styles []ProfileStyle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&ProfileStyle{}).Error; err != nil {
			return err
		}
		if len(styles) == 0 {
			return nil
		}
		return tx.Create(&styles).Error
	})
}

func (r *repository) ReplaceServices(ctx context.Context, profileID int64, serviceIDs []int64) error {
	rows := make([]ProfileService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		rows = append(rows, ProfileService{ProfileID: profileID, ServiceID: id})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&ProfileService{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *repository) ReplaceBodyParts(ctx context.Context, profileID int64, bodyPartIDs []int64) error {
	rows := make([]ProfileBodyPart, 0, len(bodyPartIDs))
	for _, id := range bodyPartIDs {
		rows = append(rows, ProfileBodyPart{ProfileID: profileID, BodyPartID: id})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&ProfileBodyPart{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *repository) CountProjects(ctx context.Context, profileID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Project{}).Where("profile_id = ?", profileID).Count(&count).Error
	return int(count), err
}

func (r *repository) CreateProject(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProject updates the text fields and replaces the media list.
func (r *repository) SaveProject(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Project{ID: p.ID}).
			Select("title", "description", "updated_at").
			Updates(p).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", p.ID).Delete(&ProjectMedia{}).Error; err != nil {
			return err
		}
		if len(p.Media) == 0 {
			return nil
		}
		for i := range p.Media {
			p.Media[i].ID = 0
			p.Media[i].ProjectID = p.ID
		}
		return tx.Create(&p.Media).Error
	})
}

func (r *repository) DeleteProject(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&ProjectMedia{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}
