package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const DefaultThumbnailsSubDir = "thumbnails"

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailWidth      = 150
)

type Config struct {
	// database path
	DatabasePath string

	// extracted scanned page images, laid out as <sourceId>/<image>
	ImagesPath string

	// answer-set JSON files produced by the extraction pipeline
	AnswerSetsPath string

	// generated browse thumbnails
	ThumbnailsPath string

	// thumbnail generation settings
	ThumbnailWidth int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int

	// reviewer auth
	JWTSecret    string
	SeedUsername string
	SeedPassword string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "muster.db")

	images := getEnvOrDefault("IMAGES_PATH", filepath.Join(".", "images"))
	absImages, err := filepath.Abs(images)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for images directory '%s': %w", images, err)
	}

	answerSets := getEnvOrDefault("ANSWER_SETS_PATH", filepath.Join(".", "answer_sets"))
	absAnswerSets, err := filepath.Abs(answerSets)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for answer sets directory '%s': %w", answerSets, err)
	}

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absImages, thumbSubDir)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:        dbPath,
		ImagesPath:          absImages,
		AnswerSetsPath:      absAnswerSets,
		ThumbnailsPath:      absThumbnailsPath,
		ThumbnailWidth:      getEnvIntOrDefault("THUMBNAIL_WIDTH", defaultThumbnailWidth),
		ThumbnailQueueSize:  getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize),
		NumThumbnailWorkers: getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers),
		JWTSecret:           jwtSecret,
		SeedUsername:        getEnvOrDefault("SEED_REVIEWER_USERNAME", "reviewer"),
		SeedPassword:        os.Getenv("SEED_REVIEWER_PASSWORD"),
	}

	return cfg, nil
}
