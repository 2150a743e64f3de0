package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Tracker      Tracker
	Coordinator  Coordinator
	Signing      Signing
	Reconciler   Reconciler
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Tracker holds settings for the file-backed policy/attempt ledger.
type Tracker struct {
	FilePath string
}

// Coordinator holds the base URLs of the external systems reached through
// the envelope protocol, plus the shared request timeout in seconds.
type Coordinator struct {
	DirectoryURL        string
	SkillsEngineURL     string
	CourseBuilderURL    string
	DevLabURL           string
	ProctoringCameraURL string
	IncidentResponseURL string
	TimeoutSeconds      int
}

// Signing identifies this service to the coordinator. Keys are PEM-encoded
// ECDSA P-256; an empty private key disables signing.
type Signing struct {
	ServiceName   string
	PrivateKeyPEM string
	PublicKeyPEM  string
}

type Reconciler struct {
	IntervalMinutes int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 6)
	viper.SetDefault("RECONCILER_INTERVAL_MINUTES", 10)
	viper.SetDefault("TRACKER_FILE_PATH", "attempt_tracker.json")
	viper.SetDefault("SERVICE_NAME", "exam-platform")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Tracker.FilePath = viper.GetString("TRACKER_FILE_PATH")

	config.Coordinator.DirectoryURL = viper.GetString("DIRECTORY_SERVICE_URL")
	config.Coordinator.SkillsEngineURL = viper.GetString("SKILLS_ENGINE_URL")
	config.Coordinator.CourseBuilderURL = viper.GetString("COURSE_BUILDER_URL")
	config.Coordinator.DevLabURL = viper.GetString("DEV_LAB_URL")
	config.Coordinator.ProctoringCameraURL = viper.GetString("PROCTORING_CAMERA_URL")
	config.Coordinator.IncidentResponseURL = viper.GetString("INCIDENT_RESPONSE_URL")
	config.Coordinator.TimeoutSeconds = viper.GetInt("GATEWAY_TIMEOUT_SECONDS")

	config.Signing.ServiceName = viper.GetString("SERVICE_NAME")
	config.Signing.PrivateKeyPEM = viper.GetString("SIGNING_PRIVATE_KEY")
	config.Signing.PublicKeyPEM = viper.GetString("SIGNING_PUBLIC_KEY")

	config.Reconciler.IntervalMinutes = viper.GetInt("RECONCILER_INTERVAL_MINUTES")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("trackerFile", config.Tracker.FilePath).Msg("Config loaded")
	return &config, nil
}
