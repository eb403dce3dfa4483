package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"receipt-rewards/internal/receipt"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Extraction ExtractionConfig
	GigaChat   GigaChatConfig
	Campaign   CampaignConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// RedisConfig configures the in-flight duplicate claim. An empty Addr
// disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ClaimTTL time.Duration
}

type ExtractionConfig struct {
	Provider         string // tesseract or gigachat
	Language         string
	RenderDPI        float64
	MaxPages         int
	MaxConcurrent    int64
	Timeout          time.Duration
	MaxUploadBytes   int64
	UploadDir        string
	MinPDFTextLength int
	MinOCRConfidence float64
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

// CampaignConfig carries the scoring policy of the running campaign.
type CampaignConfig struct {
	MinConfidence         int
	StoreWeight           int
	PrimaryDirectWeight   int
	PrimaryFuzzyWeight    int
	SecondaryDirectWeight int
	SecondaryFuzzyWeight  int
	BundleWeight          int
	TotalWeight           int
	DateWeight            int
	PointsPerBottle       int
	PointsPerPack         int
	BundlePoints          int
	MaxBottlesPerLine     int
	MaxPacksPerLine       int
	BundleMode            string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	claimTTL, _ := strconv.Atoi(getEnv("REDIS_CLAIM_TTL_SECONDS", "120"))

	renderDPI, err := strconv.ParseFloat(getEnv("PDF_RENDER_DPI", "300"), 64)
	if err != nil {
		renderDPI = 300
	}
	minOCRConfidence, err := strconv.ParseFloat(getEnv("OCR_MIN_CONFIDENCE", "0.3"), 64)
	if err != nil {
		minOCRConfidence = 0.3
	}
	maxPages, _ := strconv.Atoi(getEnv("PDF_MAX_PAGES", "5"))
	maxConcurrent, _ := strconv.ParseInt(getEnv("EXTRACTION_MAX_CONCURRENT", "4"), 10, 64)
	extractionTimeout, _ := strconv.Atoi(getEnv("EXTRACTION_TIMEOUT_SECONDS", "60"))
	maxUploadMB, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64)
	minPDFText, _ := strconv.Atoi(getEnv("PDF_MIN_TEXT_LENGTH", "50"))
	connLifetime, _ := strconv.Atoi(getEnv("DB_MAX_CONN_LIFETIME_MINUTES", "30"))

	defaults := receipt.DefaultPolicy()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    int(maxUploadMB+1) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "receipt_rewards"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: time.Duration(connLifetime) * time.Minute,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			ClaimTTL: time.Duration(claimTTL) * time.Second,
		},
		Extraction: ExtractionConfig{
			Provider:         getEnv("OCR_PROVIDER", "tesseract"),
			Language:         getEnv("OCR_LANGUAGE", "eng"),
			RenderDPI:        renderDPI,
			MaxPages:         maxPages,
			MaxConcurrent:    maxConcurrent,
			Timeout:          time.Duration(extractionTimeout) * time.Second,
			MaxUploadBytes:   maxUploadMB * 1024 * 1024,
			UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
			MinPDFTextLength: minPDFText,
			MinOCRConfidence: minOCRConfidence,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Campaign: CampaignConfig{
			MinConfidence:         getEnvInt("CAMPAIGN_MIN_CONFIDENCE", defaults.MinConfidence),
			StoreWeight:           getEnvInt("CAMPAIGN_STORE_WEIGHT", defaults.StoreWeight),
			PrimaryDirectWeight:   getEnvInt("CAMPAIGN_PRIMARY_DIRECT_WEIGHT", defaults.PrimaryDirectWeight),
			PrimaryFuzzyWeight:    getEnvInt("CAMPAIGN_PRIMARY_FUZZY_WEIGHT", defaults.PrimaryFuzzyWeight),
			SecondaryDirectWeight: getEnvInt("CAMPAIGN_SECONDARY_DIRECT_WEIGHT", defaults.SecondaryDirectWeight),
			SecondaryFuzzyWeight:  getEnvInt("CAMPAIGN_SECONDARY_FUZZY_WEIGHT", defaults.SecondaryFuzzyWeight),
			BundleWeight:          getEnvInt("CAMPAIGN_BUNDLE_WEIGHT", defaults.BundleWeight),
			TotalWeight:           getEnvInt("CAMPAIGN_TOTAL_WEIGHT", defaults.TotalWeight),
			DateWeight:            getEnvInt("CAMPAIGN_DATE_WEIGHT", defaults.DateWeight),
			PointsPerBottle:       getEnvInt("CAMPAIGN_POINTS_PER_BOTTLE", defaults.PointsPerBottle),
			PointsPerPack:         getEnvInt("CAMPAIGN_POINTS_PER_PACK", defaults.PointsPerPack),
			BundlePoints:          getEnvInt("CAMPAIGN_BUNDLE_POINTS", defaults.BundlePoints),
			MaxBottlesPerLine:     getEnvInt("CAMPAIGN_MAX_BOTTLES_PER_LINE", defaults.MaxBottlesPerLine),
			MaxPacksPerLine:       getEnvInt("CAMPAIGN_MAX_PACKS_PER_LINE", defaults.MaxPacksPerLine),
			BundleMode:            getEnv("BUNDLE_MODE", string(defaults.BundleMode)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// ToPolicy builds the scoring policy. Unknown bundle modes fall back to split.
func (c CampaignConfig) ToPolicy() receipt.Policy {
	p := receipt.DefaultPolicy()
	p.MinConfidence = c.MinConfidence
	p.StoreWeight = c.StoreWeight
	p.PrimaryDirectWeight = c.PrimaryDirectWeight
	p.PrimaryFuzzyWeight = c.PrimaryFuzzyWeight
	p.SecondaryDirectWeight = c.SecondaryDirectWeight
	p.SecondaryFuzzyWeight = c.SecondaryFuzzyWeight
	p.BundleWeight = c.BundleWeight
	p.TotalWeight = c.TotalWeight
	p.DateWeight = c.DateWeight
	p.PointsPerBottle = c.PointsPerBottle
	p.PointsPerPack = c.PointsPerPack
	p.BundlePoints = c.BundlePoints
	p.MaxBottlesPerLine = c.MaxBottlesPerLine
	p.MaxPacksPerLine = c.MaxPacksPerLine

	switch receipt.BundleMode(strings.ToLower(c.BundleMode)) {
	case receipt.BundleCombined:
		p.BundleMode = receipt.BundleCombined
	default:
		p.BundleMode = receipt.BundleSplit
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}
