package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	app := cmd.NewCompositionRoot(configs, gormDB)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("cannot start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	return cmd.Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RoutingBaseURL: os.Getenv("ROUTING_BASE_URL"),
		RoutingAPIKey:  os.Getenv("ROUTING_API_KEY"),
		RoutingTimeout: envDuration("ROUTING_TIMEOUT", 10*time.Second),

		NotifierURL:     os.Getenv("NOTIFIER_URL"),
		NotifierTimeout: envDuration("NOTIFIER_TIMEOUT", 5*time.Second),

		AuthCodeTTL: envDuration("AUTH_CODE_TTL", 10*time.Minute),

		RouteStart:            envDuration("ROUTE_START", 9*time.Hour),
		WindowSlack:           envDuration("WINDOW_SLACK", 0),
		ImprovementIterations: envInt("SOLVER_ITERATIONS", 0),
		ProfileOverrides:      envPairs("PROFILE_OVERRIDES"),

		DailyOptimizeTenants:  envList("DAILY_OPTIMIZE_TENANTS"),
		DailyOptimizeSchedule: envOr("DAILY_OPTIMIZE_SCHEDULE", "0 6 * * *"),
		OptimizeTimeout:       envDuration("OPTIMIZE_TIMEOUT", 2*time.Minute),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration in %s: %v", key, err)
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid integer in %s: %v", key, err)
	}
	return n
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// envPairs parses "key=value,key=value" lists.
func envPairs(key string) map[string]string {
	out := make(map[string]string)
	for _, item := range envList(key) {
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			log.Fatalf("invalid pair %q in %s, want key=value", item, key)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(app.HTTPHandlers())
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
