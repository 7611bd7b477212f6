package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "boofino_db"
	defaultRedisAddr     = "localhost:6379"
	defaultAppKey        = "change-me-in-production"
	defaultAppPort       = "3000"
	defaultGRPCPort     = ""
	defaultAppEnv        = "local"
	defaultAppURL        = "http://localhost:3000"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env (each optional) over the built-in
// defaults. Safe to call repeatedly; the files are read once.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":          defaultMongoURI,
		"MONGO_DATABASE":     defaultMongoDatabase,
		"REDIS_ADDR":         defaultRedisAddr,
		"REDIS_PASSWORD":     "",
		"APP_KEY":            defaultAppKey,
		"APP_PORT":           defaultAppPort,
		"GRPC_PORT":          defaultGRPCPort,
		"APP_ENV":            defaultAppEnv,
		"APP_URL":            defaultAppURL,
		"SESSION_TTL":        "2h",
		"SERVICE_JWT_SECRET": "",
		"CORS_ORIGIN":        "http://localhost:5173",
		"RATE_LIMIT_MAX":     "100",
		"RATE_LIMIT_WINDOW":  "15m",
	}
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

// GRPCPort returns the gRPC listen port; empty disables the gRPC server.
func GRPCPort() string {
	_ = Load()
	return get("GRPC_PORT", defaultGRPCPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// AppURL is the externally visible base URL, used to build upload URLs.
func AppURL() string {
	_ = Load()
	return strings.TrimRight(get("APP_URL", defaultAppURL), "/")
}

// AppKey is the application secret used for session hardening.
func AppKey() string {
	_ = Load()
	return get("APP_KEY", defaultAppKey)
}

// ServiceJWTSecret signs tokens for the fulfillment service. Falls back to
// APP_KEY when unset.
func ServiceJWTSecret() string {
	_ = Load()
	if s := get("SERVICE_JWT_SECRET", ""); s != "" {
		return s
	}
	return AppKey()
}

func SessionTTL() time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get("SESSION_TTL", "2h"))
	if err != nil || d <= 0 {
		return 2 * time.Hour
	}
	return d
}

func CORSOrigin() string {
	_ = Load()
	return get("CORS_ORIGIN", "http://localhost:5173")
}

func RateLimitMax() int {
	_ = Load()
	n, err := strconv.Atoi(get("RATE_LIMIT_MAX", "100"))
	if err != nil || n <= 0 {
		return 100
	}
	return n
}

func RateLimitWindow() time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get("RATE_LIMIT_WINDOW", "15m"))
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", "uploads")
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", AppURL()+"/static")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── File loading ─────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a config key at runtime. Intended for tests.
func Set(key, value string) {
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
