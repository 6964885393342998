// Package app wires domains, middleware and routes into a gin engine.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tablehub/internal/config"
	"tablehub/internal/domain/auth"
	"tablehub/internal/domain/event"
	"tablehub/internal/domain/notification"
	"tablehub/internal/domain/reservation"
	"tablehub/internal/domain/restaurant"
	"tablehub/internal/domain/review"
	"tablehub/internal/domain/search"
	"tablehub/internal/domain/story"
	"tablehub/internal/middleware"
	"tablehub/internal/pkg/jwt"
)

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	for _, migrate := range []func(*gorm.DB) error{
		auth.AutoMigrate,
		restaurant.AutoMigrate,
		reservation.AutoMigrate,
		review.AutoMigrate,
		event.AutoMigrate,
		story.AutoMigrate,
	} {
		if err := migrate(db); err != nil {
			return err
		}
	}
	return nil
}

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	JWT    *jwt.Service
	// Redis may be nil; rate limiting and caching are then disabled.
	Redis *redis.Client
	Hub   *notification.Hub
	// Events receives reservation events besides the hub. May be nil.
	Events reservation.EventPublisher
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(d.Config.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	publishers := reservation.Publishers{d.Hub}
	if d.Events != nil {
		publishers = append(publishers, d.Events)
	}

	restaurantRepo := restaurant.NewRepository(d.DB)
	restaurantHandler := restaurant.NewHandler(restaurant.NewService(restaurantRepo))
	reservationHandler := reservation.NewHandler(
		reservation.NewService(reservation.NewRepository(d.DB), restaurantRepo, publishers),
	)
	reviewHandler := review.NewHandler(review.NewService(review.NewReviewRepository(d.DB), restaurantRepo))
	eventHandler := event.NewHandler(event.NewService(event.NewRepository(d.DB), restaurantRepo))
	storyHandler := story.NewHandler(story.NewService(story.NewRepository(d.DB)))
	searchHandler := search.NewHandler(search.NewService(d.DB))

	cache := middleware.Cache(d.Config.Cache, d.Redis)
	limiter := middleware.RateLimit(d.Config.RateLimit, d.Redis)

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.JWT))

	restaurantHandler.RegisterRoutes(v1, protected, cache)
	reservationHandler.RegisterRoutes(v1, protected, limiter)
	reviewHandler.RegisterRoutes(v1, protected)
	eventHandler.RegisterRoutes(v1, protected)
	storyHandler.RegisterRoutes(v1, protected, middleware.OptionalAuth(d.JWT))
	searchHandler.RegisterRoutes(v1, cache)

	notification.NewWSHandler(d.Hub, d.JWT, d.Config.CORSAllowedOrigins).RegisterRoutes(r)

	return r
}
