package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkbook/internal/config"
	"inkbook/internal/database"
	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/auth"
	"inkbook/internal/domain/studio"
	"inkbook/internal/domain/subscription"
	"inkbook/internal/domain/user"
	"inkbook/internal/pkg/jwt"
	"inkbook/internal/pkg/mq"
)

var styles = []string{
	"Traditional", "Neo Traditional", "Japanese", "Blackwork", "Fine Line",
	"Realism", "Watercolor", "Geometric", "Dotwork", "Tribal", "Lettering", "Illustrative",
}

var services = []string{
	"Custom Design", "Flash", "Cover Up", "Touch Up", "Color Work", "Black and Grey",
}

var bodyParts = []string{
	"Arm", "Forearm", "Hand", "Leg", "Calf", "Foot", "Back", "Chest", "Ribs", "Neck", "Shoulder",
}

func main() {
	demo := flag.Bool("demo", false, "also create demo lover, artist and studio accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	models := []any{&user.User{}}
	models = append(models, artist.Models()...)
	models = append(models, studio.Models()...)
	models = append(models, subscription.Models()...)
	if err := database.Migrate(db, models...); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// ================== CATALOG ==================
	log.Println("Seeding catalog...")
	must(upsert(db, catalog(styles, func(name, slug string) artist.Style {
		return artist.Style{Name: name, Slug: slug}
	})))
	must(upsert(db, catalog(services, func(name, slug string) artist.TattooService {
		return artist.TattooService{Name: name, Slug: slug}
	})))
	must(upsert(db, catalog(bodyParts, func(name, slug string) artist.BodyPart {
		return artist.BodyPart{Name: name, Slug: slug}
	})))

	// ================== PLANS ==================
	log.Println("Seeding plans...")
	plans := []subscription.Plan{
		{
			ID: subscription.PlanFree, Name: "Free", Description: "Get listed with a small portfolio",
			Currency: "THB", MaxProjects: 3, IsActive: true,
		},
		{
			ID: subscription.PlanPro, Name: "Pro", Description: "Featured listing and a bigger portfolio",
			PriceMonthly: 99000, PriceYearly: 990000, Currency: "THB", TrialDays: 14,
			MaxProjects: 50, FeaturedListing: true, IsActive: true,
		},
		{
			ID: subscription.PlanStudio, Name: "Studio", Description: "Unlimited portfolio and studio tools",
			PriceMonthly: 249000, PriceYearly: 2490000, Currency: "THB",
			MaxProjects: -1, UnlimitedPortfolio: true, StudioTools: true, Analytics: true, IsActive: true,
		},
	}
	must(db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&plans).Error)

	if *demo {
		seedDemo(db, cfg)
	}

	log.Println("Seed completed")
}

func seedDemo(db *gorm.DB, cfg *config.App) {
	ctx := context.Background()
	log.Println("Creating demo accounts...")

	artists := artist.NewService(artist.NewRepository(db), nil)
	authService := auth.NewService(db, user.NewRepository(db), artists, jwt.New(cfg.JWTSecret, cfg.JWTTTL))

	var styleRows []artist.Style
	must(db.Order("id").Limit(2).Find(&styleRows).Error)
	var serviceRow artist.TattooService
	must(db.Order("id").First(&serviceRow).Error)
	var partRow artist.BodyPart
	must(db.Order("id").First(&partRow).Error)

	_, err := authService.RegisterLover(ctx, auth.RegisterLoverRequest{Account: auth.Account{
		Email:       "lover@inkbook.test",
		Password:    "lover12345",
		Username:    "ink_lover",
		DisplayName: "Ink Lover",
		City:        "Bangkok",
	}})
	skipTaken(err, "lover@inkbook.test")

	owner, err := authService.RegisterArtist(ctx, auth.RegisterArtistRequest{
		Account: auth.Account{
			Email:       "artist@inkbook.test",
			Password:    "artist12345",
			Username:    "needle_work",
			DisplayName: "Needle Work",
			Bio:         "Fine line and blackwork.",
			City:        "Bangkok",
		},
		Profile: artist.CreateProfileInput{
			HourlyRate:      150000,
			MinimumCharge:   200000,
			Currency:        "THB",
			WorkArrangement: artist.WorkStudio,
			Styles: []artist.StyleChoice{
				{StyleID: styleRows[0].ID, IsPrimary: true},
				{StyleID: styleRows[1].ID},
			},
			ServiceIDs:  []int64{serviceRow.ID},
			BodyPartIDs: []int64{partRow.ID},
		},
	})
	if skipTaken(err, "artist@inkbook.test") {
		return
	}

	studios := studio.NewService(studio.NewRepository(db), artists, mq.Nop{}, cfg.InvitationTTL)
	s, err := studios.CreateStudio(ctx, owner.User.ID, studio.CreateStudioRequest{
		Name:     "Black Lotus Tattoo",
		City:     "Bangkok",
		Address:  "12 Sukhumvit Soi 11",
		StyleIDs: []int64{styleRows[0].ID},
	})
	must(err)
	log.Printf("Demo studio created: id=%d name=%s", s.ID, s.Name)
}

func catalog[T any](names []string, build func(name, slug string) T) []T {
	rows := make([]T, 0, len(names))
	for _, n := range names {
		rows = append(rows, build(n, slugify(n)))
	}
	return rows
}

func upsert[T any](db *gorm.DB, rows []T) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func skipTaken(err error, email string) bool {
	if errors.Is(err, auth.ErrEmailTaken) {
		log.Printf("%s already exists, skipping", email)
		return true
	}
	must(err)
	log.Printf("Demo account created: %s", email)
	return false
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
