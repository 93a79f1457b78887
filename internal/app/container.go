package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirateia/stagetime-backend/internal/api"
	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/calendar"
	"github.com/mirateia/stagetime-backend/internal/commitment"
	"github.com/mirateia/stagetime-backend/internal/file"
	"github.com/mirateia/stagetime-backend/internal/pkg/storage"
	"github.com/mirateia/stagetime-backend/internal/schedule"
	"github.com/mirateia/stagetime-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	AdapterTimeout  time.Duration
	SyncHorizonDays int
	UploadDir       string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and wires them together.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Availability module
	availabilityRepo := availability.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(availabilityRepo)

	// Calendar module: adapters register once at startup.
	registry := calendar.NewRegistry()
	registry.Register(calendar.EcosystemICSFeed, calendar.NewICSFeedAdapter())

	calendarRepo := calendar.NewPgxRepository(cfg.DBPool)
	commitmentRepo := commitment.NewPgxRepository(cfg.DBPool)
	calendarService := calendar.NewService(calendarRepo, registry, commitmentRepo, cfg.SyncHorizonDays)

	// Schedule engine: reads the ledger and config stores directly, fans out
	// to calendar adapters through the registry.
	scheduleService := schedule.NewService(availabilityService, commitmentRepo, calendarRepo, registry, cfg.AdapterTimeout)

	// Commitment module: the schedule engine answers its conflict checks.
	commitmentService := commitment.NewService(commitmentRepo, userService, availabilityService, scheduleService)

	// Portfolio module
	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	fileRepo := file.NewRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		AvailabilityService: availabilityService,
		CommitmentService:   commitmentService,
		CalendarService:     calendarService,
		ScheduleService:     scheduleService,
		FileService:         fileService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
