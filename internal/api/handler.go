package api

import (
	"context"
	"errors"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/cache"
	"github.com/dinraj910/Health-Tracker-App/internal/db"
	"github.com/dinraj910/Health-Tracker-App/internal/metrics"
	"github.com/dinraj910/Health-Tracker-App/internal/models"
	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL   = 7 * 24 * time.Hour
	defaultRequestTimeout = 15 * time.Second
)

// AnalyticsLimits bounds the analytics query windows and request rate.
type AnalyticsLimits struct {
	StreakCap            int
	DefaultAdherenceDays int
	DefaultTrendDays     int
	MaxWindowDays        int
	RateLimitRPS         float64
	RateLimitBurst       int
}

type HandlerConfig struct {
	SecretKey      string
	TokenTTL       time.Duration
	CookieSecure   bool
	RequestTimeout time.Duration
	Location       *time.Location
	Analytics      AnalyticsLimits
	Logger         *zap.Logger
	Metrics        *metrics.Analytics
	Cache          *cache.SummaryCache
	// Clock overrides the wall clock; tests pin it.
	Clock services.Clock
}

type Handler struct {
	db             *gorm.DB
	secretKey      []byte
	tokenTTL       time.Duration
	cookieSecure   bool
	requestTimeout time.Duration
	location       *time.Location
	limits         AnalyticsLimits
	logger         *zap.Logger
	metrics        *metrics.Analytics
	cache          *cache.SummaryCache
	clock          services.Clock

	repositories *db.Repositories
	authService  *services.AuthService
	analytics    *services.AnalyticsService

	loginThrottle    *loginThrottle
	analyticsLimiter *userRateLimiter
}

func NewHandler(database *gorm.DB, config HandlerConfig) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultAuthTokenTTL
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	if config.Clock == nil {
		config.Clock = services.NewSystemClock(config.Location)
	}
	config.Analytics = withAnalyticsDefaults(config.Analytics)

	repositories := db.NewRepositories(database)
	analytics := services.NewAnalyticsService(services.AnalyticsDependencies{
		Doses:      repositories.DoseLogs,
		HealthLogs: repositories.HealthLogs,
		Medicines:  repositories.Medicines,
		Clock:      config.Clock,
		StreakCap:  config.Analytics.StreakCap,
		Logger:     config.Logger,
		Observer:   config.Metrics,
	})

	return &Handler{
		db:               database,
		secretKey:        []byte(config.SecretKey),
		tokenTTL:         config.TokenTTL,
		cookieSecure:     config.CookieSecure,
		requestTimeout:   config.RequestTimeout,
		location:         config.Location,
		limits:           config.Analytics,
		logger:           config.Logger,
		metrics:          config.Metrics,
		cache:            config.Cache,
		clock:            config.Clock,
		repositories:     repositories,
		authService:      services.NewAuthService(repositories.Users),
		analytics:        analytics,
		loginThrottle:    newLoginThrottle(loginAttemptLimit, loginAttemptWindow),
		analyticsLimiter: newUserRateLimiter(config.Analytics.RateLimitRPS, config.Analytics.RateLimitBurst),
	}, nil
}

func withAnalyticsDefaults(limits AnalyticsLimits) AnalyticsLimits {
	if limits.StreakCap <= 0 {
		limits.StreakCap = services.DefaultStreakCap
	}
	if limits.DefaultAdherenceDays <= 0 {
		limits.DefaultAdherenceDays = services.DefaultAdherenceDays
	}
	if limits.DefaultTrendDays <= 0 {
		limits.DefaultTrendDays = services.DefaultTrendDays
	}
	if limits.MaxWindowDays <= 0 {
		limits.MaxWindowDays = 365
	}
	if limits.RateLimitRPS <= 0 {
		limits.RateLimitRPS = 5
	}
	if limits.RateLimitBurst <= 0 {
		limits.RateLimitBurst = 20
	}
	return limits
}

// userScope holds the services of one request, with calendar days in the
// user's timezone.
type userScope struct {
	location  *time.Location
	analytics *services.AnalyticsService
	doses     *services.DoseLogService
	health    *services.HealthLogService
	medicines *services.MedicineService
}

func (handler *Handler) scopeFor(user *models.User) userScope {
	location := services.UserLocation(user.Timezone, handler.location)
	clock := services.InLocation(handler.clock, location)
	repositories := handler.repositories

	return userScope{
		location:  location,
		analytics: handler.analytics.WithLocation(location),
		doses:     services.NewDoseLogService(repositories.DoseLogs, repositories.Medicines, clock),
		health:    services.NewHealthLogService(repositories.HealthLogs, clock),
		medicines: services.NewMedicineService(repositories.Medicines, repositories.DoseLogs, clock),
	}
}

func (handler *Handler) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, handler.requestTimeout)
}
