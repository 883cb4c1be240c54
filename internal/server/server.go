package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/recipeshare/internal/middleware"
	"anoa.com/recipeshare/pkg/cache"
	"anoa.com/recipeshare/pkg/storage"

	categoryHttp "anoa.com/recipeshare/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/recipeshare/internal/modules/category/repository"
	categoryService "anoa.com/recipeshare/internal/modules/category/service"

	recipeHttp "anoa.com/recipeshare/internal/modules/recipe/delivery/http"
	recipeRepo "anoa.com/recipeshare/internal/modules/recipe/repository"
	recipeService "anoa.com/recipeshare/internal/modules/recipe/service"

	trickHttp "anoa.com/recipeshare/internal/modules/trick/delivery/http"
	trickRepo "anoa.com/recipeshare/internal/modules/trick/repository"
	trickService "anoa.com/recipeshare/internal/modules/trick/service"

	userHttp "anoa.com/recipeshare/internal/modules/user/delivery/http"
	userRepo "anoa.com/recipeshare/internal/modules/user/repository"
	userService "anoa.com/recipeshare/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options holds the HTTP level settings of the server.
type Options struct {
	AllowedOrigins []string
	CacheTTL       time.Duration
	UploadFolder   string
	MaxUploadBytes int64
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	httpServer  *http.Server
}

// NewServer wires repositories, services and handlers. redisClient and
// imageStorage may be nil; listings are then served uncached and only image
// URLs are accepted for recipes.
func NewServer(db *gorm.DB, redisClient *redis.Client, imageStorage storage.ImageStorage, opts Options) *Server {
	recipeCache := cache.NewListCache(redisClient, opts.CacheTTL, "recipes")
	trickCache := cache.NewListCache(redisClient, opts.CacheTTL, "tricks")

	userSvc := userService.NewUserService(userRepo.NewUserRepository(db), imageStorage, recipeCache, trickCache)
	userHandler := userHttp.NewUserHandler(userSvc)

	categorySvc := categoryService.NewCategoryService(categoryRepo.NewCategoryRepository(db), imageStorage, recipeCache)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	recipeSvc := recipeService.NewRecipeService(recipeRepo.NewRecipeRepository(db), imageStorage, opts.UploadFolder, recipeCache)
	recipeHandler := recipeHttp.NewRecipeHandler(recipeSvc, opts.MaxUploadBytes)

	trickSvc := trickService.NewTrickService(trickRepo.NewTrickRepository(db), trickCache)
	trickHandler := trickHttp.NewTrickHandler(trickSvc)

	router := gin.New()
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
	}

	setupCORS(router, opts.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger("/health"))

	s := &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		httpServer: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.GET("/health", s.health)

	router.POST("/user", userHandler.Register)
	router.GET("/user/:id", userHandler.GetUser)
	router.DELETE("/user/:id", userHandler.DeleteUser)

	router.POST("/category", categoryHandler.CreateCategory)
	router.GET("/categories", categoryHandler.GetAllCategories)
	router.GET("/category/:id", categoryHandler.GetCategory)
	router.PUT("/category/:id", categoryHandler.UpdateCategory)
	router.DELETE("/category/:id", categoryHandler.DeleteCategory)

	router.POST("/recipe", recipeHandler.CreateRecipe)
	router.GET("/recipes", recipeHandler.GetPublishedRecipes)
	router.GET("/recipes/:category_id", recipeHandler.GetPublishedRecipes)
	router.GET("/recipe/:id", recipeHandler.GetRecipe)
	router.PATCH("/recipe/:id", recipeHandler.UpdateRecipe)
	router.DELETE("/recipe/:id", recipeHandler.DeleteRecipe)

	router.POST("/trick", trickHandler.CreateTrick)
	router.GET("/tricks", trickHandler.GetPublishedTricks)
	router.GET("/trick/:id", trickHandler.GetTrick)
	router.PATCH("/trick/:id", trickHandler.UpdateTrick)
	router.DELETE("/trick/:id", trickHandler.DeleteTrick)

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.httpServer.Addr = addr

	logrus.WithField("addr", addr).Info("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok"}
	code := http.StatusOK

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if s.redisClient != nil {
		status["cache"] = "ok"
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			// listings fall back to the database
			status["cache"] = "unavailable"
		}
	}

	c.JSON(code, status)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
