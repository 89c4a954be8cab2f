// Package httpapi exposes the service over REST: gin engine, auth
// middleware, and the uniform response envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"carsapi/internal/logging"
	"carsapi/internal/server/blob"
	"carsapi/internal/server/config"
	"carsapi/internal/server/models"
	"carsapi/internal/server/services"
)

// IdentityService is the slice of the identity service the handlers use.
type IdentityService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*services.AuthResult, error)
	Logout(ctx context.Context, acting services.Principal) error
	UpdateEmail(ctx context.Context, targetID, newEmail string, acting services.Principal) (*models.User, error)
	UpdatePassword(ctx context.Context, targetID, oldPassword, newPassword string, acting services.Principal) error
	UpdateName(ctx context.Context, targetID, firstName, lastName string, acting services.Principal) (*models.User, error)
	DeleteUser(ctx context.Context, targetID string, acting services.Principal) error
	GetUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// CarService is the slice of the car service the handlers use.
type CarService interface {
	AddCar(ctx context.Context, car *models.Car, images []blob.File) (*models.Car, error)
	ListCars(ctx context.Context) ([]*models.Car, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
	CarsByCategory(ctx context.Context, category string) ([]*models.Car, error)
	SpecialCars(ctx context.Context) ([]*models.Car, error)
	MarkSpecial(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, upd services.CarUpdate) (*models.Car, error)
	DeleteCar(ctx context.Context, id string) error
}

// FavoriteService is the slice of the favorite service the handlers use.
type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, carID string) (bool, error)
	FavoritesByUser(ctx context.Context, userID string) ([]*models.FavoriteCar, error)
}

// Options wires the server's collaborators.
type Options struct {
	Config    *config.Config
	Logger    logging.Logger
	Identity  IdentityService
	Cars      CarService
	Favorites FavoriteService
	Blobs     blob.Store
	Verifier  TokenVerifier
	Resolve   PrincipalResolver
}

type Server struct {
	cfg    *config.Config
	logger logging.Logger
	engine *gin.Engine

	identity  IdentityService
	cars      CarService
	favorites FavoriteService
	blobs     blob.Store
}

func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(opts.Logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		cfg:       opts.Config,
		logger:    opts.Logger,
		engine:    engine,
		identity:  opts.Identity,
		cars:      opts.Cars,
		favorites: opts.Favorites,
		blobs:     opts.Blobs,
	}

	// Local-disk uploads are served straight from the upload dir; the S3
	// backend hands out presigned URLs instead.
	if opts.Config.BlobBackend == "local" {
		engine.Static("/uploads", opts.Config.UploadDir)
	}

	authed := authRequired(opts.Verifier, opts.Resolve)

	api := engine.Group("/api")

	identity := api.Group("/identity")
	{
		identity.POST("/register", s.handleRegister)
		identity.POST("/login", s.handleLogin)
		identity.GET("/users", s.handleGetUsers)
		identity.GET("/users/:id", s.handleGetUser)

		secured := identity.Group("")
		secured.Use(authed)
		{
			secured.POST("/logout", s.handleLogout)
			secured.PUT("/update-email", s.handleUpdateEmail)
			secured.PUT("/update-password", s.handleUpdatePassword)
			secured.PUT("/update-name", s.handleUpdateName)
			secured.DELETE("/delete-user/:id", s.handleDeleteUser)
		}
	}

	cars := api.Group("/cars")
	{
		cars.GET("", s.handleListCars)
		cars.GET("/:id", s.handleGetCar)
		cars.GET("/category/:category", s.handleCarsByCategory)
		cars.GET("/specials", s.handleSpecialCars)

		secured := cars.Group("")
		secured.Use(authed)
		{
			secured.POST("", s.handleAddCar)
			secured.PUT("/:id", s.handleUpdateCar)
			secured.PUT("/:id/special", s.handleMarkSpecial)
			secured.DELETE("/:id", s.handleDeleteCar)
		}
	}

	favourites := api.Group("/favourites")
	favourites.Use(authed)
	{
		favourites.POST("", s.handleAddFavorite)
		favourites.GET("", s.handleFavorites)
	}

	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.EndpointAddrHTTP,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
