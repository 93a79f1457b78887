package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/availability"
	availabilityHttp "github.com/mirateia/stagetime-backend/internal/availability/http"
	"github.com/mirateia/stagetime-backend/internal/calendar"
	calendarHttp "github.com/mirateia/stagetime-backend/internal/calendar/http"
	"github.com/mirateia/stagetime-backend/internal/commitment"
	commitmentHttp "github.com/mirateia/stagetime-backend/internal/commitment/http"
	"github.com/mirateia/stagetime-backend/internal/file"
	fileHttp "github.com/mirateia/stagetime-backend/internal/file/http"
	"github.com/mirateia/stagetime-backend/internal/schedule"
	scheduleHttp "github.com/mirateia/stagetime-backend/internal/schedule/http"
	"github.com/mirateia/stagetime-backend/internal/user"
	userHttp "github.com/mirateia/stagetime-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the API surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	AvailabilityService availability.Service
	CommitmentService   commitment.Service
	CalendarService     calendar.Service
	ScheduleService     schedule.Service
	FileService         file.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware and registers every module's routes
// under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	commitmentHandler := commitmentHttp.NewHandler(cfg.CommitmentService)
	calendarHandler := calendarHttp.NewHandler(cfg.CalendarService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
		commitmentHttp.RegisterRoutes(v1, commitmentHandler, authMiddleware)
		calendarHttp.RegisterRoutes(v1, calendarHandler, authMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
