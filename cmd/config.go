package cmd

import "time"

// Config carries everything the service reads from the environment. Parsing
// happens in main; composition only consumes typed values.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RoutingBaseURL string
	RoutingAPIKey  string
	RoutingTimeout time.Duration

	// NotifierURL empty means notifications are dropped.
	NotifierURL     string
	NotifierTimeout time.Duration

	AuthCodeTTL time.Duration

	// Solver tuning. Zero values fall back to solver defaults.
	RouteStart            time.Duration
	WindowSlack           time.Duration
	ImprovementIterations int

	// ProfileOverrides remaps vehicle classes to routing profiles, e.g.
	// "scooter=driving-car". Classes not listed keep the default mapping.
	ProfileOverrides map[string]string

	// DailyOptimizeTenants lists the tenants the scheduled planning pass
	// covers. Empty leaves the job dormant.
	DailyOptimizeTenants  []string
	DailyOptimizeSchedule string
	OptimizeTimeout       time.Duration
}
