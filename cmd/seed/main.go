// Command seed fills a development database with sample data and prints
// bearer tokens for the seeded accounts.
package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tablehub/internal/app"
	"tablehub/internal/config"
	"tablehub/internal/database"
	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/event"
	"tablehub/internal/domain/reservation"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/domain/review"
	"tablehub/internal/domain/story"
	jwtsvc "tablehub/internal/pkg/jwt"
	"tablehub/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.SLog

	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("DB connection failed", "error", err)
	}
	if err := app.Migrate(db); err != nil {
		log.Fatalw("migration failed", "error", err)
	}

	log.Info("Cleaning old data...")
	for _, table := range []string{"reviews", "reservations", "events", "stories", "restaurants", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalw("cleanup failed", "table", table, "error", err)
		}
	}

	ctx := context.Background()
	users := auth.NewUserRepository(db)

	// ================== USERS ==================
	log.Info("Creating users...")
	mkUser := func(email, password, name string, role auth.UserRole) *auth.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalw("hash password", "error", err)
		}
		u := &auth.User{Email: email, PasswordHash: string(hash), Role: role, Name: name}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalw("create user", "email", email, "error", err)
		}
		return u
	}

	admin := mkUser("admin@tablehub.dev", "admin123", "Admin", auth.RoleAdmin)
	owners := []*auth.User{
		mkUser("marie@bistro.dev", "owner123", "Marie Laurent", auth.RoleRestaurantOwner),
		mkUser("kenji@noodles.dev", "owner123", "Kenji Sato", auth.RoleRestaurantOwner),
	}
	guests := []*auth.User{
		mkUser("ann@guest.dev", "guest123", "Ann Guest", auth.RoleUser),
		mkUser("bob@guest.dev", "guest123", "Bob Diner", auth.RoleUser),
		mkUser("cara@guest.dev", "guest123", "Cara Foodie", auth.RoleUser),
	}

	actor := func(u *auth.User) auth.Actor { return auth.Actor{UserID: u.ID, Role: u.Role} }

	// ================== RESTAURANTS ==================
	log.Info("Creating restaurants...")
	restaurantRepo := restaurant.NewRepository(db)
	restaurantSvc := restaurant.NewService(restaurantRepo)
	seedRestaurants := []struct {
		owner *auth.User
		req   restaurant.CreateRequest
	}{
		{owners[0], restaurant.CreateRequest{Name: "Le Petit Bistro", Cuisine: "French", City: "Lyon", Address: "12 Rue Mercière", Description: "Classic bouchon cooking"}},
		{owners[0], restaurant.CreateRequest{Name: "Marché Vert", Cuisine: "Vegetarian", City: "Lyon", Description: "Seasonal market plates"}},
		{owners[1], restaurant.CreateRequest{Name: "Kenji Ramen", Cuisine: "Japanese", City: "Osaka", Description: "Tonkotsu and shoyu ramen"}},
	}
	restaurants := make([]*restaurant.Restaurant, 0, len(seedRestaurants))
	for _, s := range seedRestaurants {
		r, err := restaurantSvc.Create(ctx, actor(s.owner), s.req)
		if err != nil {
			log.Fatalw("create restaurant", "name", s.req.Name, "error", err)
		}
		restaurants = append(restaurants, r)
	}

	// ================== REVIEWS ==================
	log.Info("Creating reviews...")
	reviewSvc := review.NewService(review.NewReviewRepository(db), restaurantRepo)
	for i, g := range guests {
		for j, r := range restaurants {
			rating := 3 + (i+j)%3
			if _, err := reviewSvc.Create(ctx, actor(g), review.CreateRequest{RestaurantID: r.ID, Rating: rating, Comment: "Lovely evening"}); err != nil {
				log.Fatalw("create review", "error", err)
			}
		}
	}

	// ================== EVENTS ==================
	log.Info("Creating events...")
	eventSvc := event.NewService(event.NewRepository(db), restaurantRepo)
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14).Add(19 * time.Hour)
	if _, err := eventSvc.Create(ctx, actor(owners[0]), event.CreateRequest{
		RestaurantID: restaurants[0].ID, Title: "Beaujolais Tasting", Category: "wine",
		StartsAt: start, EndsAt: start.Add(3 * time.Hour), Capacity: 30,
	}); err != nil {
		log.Fatalw("create event", "error", err)
	}
	if _, err := eventSvc.Create(ctx, actor(owners[1]), event.CreateRequest{
		RestaurantID: restaurants[2].ID, Title: "Noodle Pulling Workshop", Category: "class",
		StartsAt: start.AddDate(0, 0, 3), EndsAt: start.AddDate(0, 0, 3).Add(2 * time.Hour), Capacity: 12,
	}); err != nil {
		log.Fatalw("create event", "error", err)
	}

	// ================== STORIES ==================
	log.Info("Creating stories...")
	storySvc := story.NewService(story.NewRepository(db))
	if _, err := storySvc.Create(ctx, actor(guests[0]), story.CreateRequest{
		RestaurantID: &restaurants[0].ID, Title: "A night of quenelles", Body: "The pike quenelle was worth the trip.",
		Tags: []string{"french", "lyon"}, Published: true,
	}); err != nil {
		log.Fatalw("create story", "error", err)
	}

	// ================== RESERVATIONS ==================
	log.Info("Creating reservations...")
	reservationSvc := reservation.NewService(reservation.NewRepository(db), restaurantRepo, nil)
	slots := []string{"18:30", "19:00", "20:30"}
	for i, g := range guests {
		r, err := reservationSvc.Create(ctx, actor(g), reservation.CreateRequest{
			RestaurantID: restaurants[i%len(restaurants)].ID,
			Date:         time.Now().UTC().AddDate(0, 0, 7+i).Format("2006-01-02"),
			Time:         slots[i%len(slots)],
			PartySize:    2 + i,
			ContactName:  g.Name,
			ContactPhone: fmt.Sprintf("+33 6 00 00 00 %02d", i),
			ContactEmail: g.Email,
		})
		if err != nil {
			log.Fatalw("create reservation", "error", err)
		}
		log.Infow("reservation", "id", r.ID, "code", r.ConfirmationCode, "guest", g.Email)
	}

	// ================== TOKENS ==================
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, u := range append([]*auth.User{admin}, append(owners, guests...)...) {
		token, err := jwt.GenerateToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatalw("generate token", "error", err)
		}
		fmt.Printf("%-22s %-17s %s\n", u.Email, u.Role, token)
	}

	log.Info("Seed completed")
}
