package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "REVIEWS_CONFIG"

// DefaultPlaceIDs are the sample places picked from when no placeId is given.
var DefaultPlaceIDs = []string{
	"ChIJN1t_tDeuEmsRUsoyG83frY4", // Sydney
	"ChIJE9on3F3HwoAR9AhGJW_fL-I", // Los Angeles City Hall
	"ChIJIQBpAG2ahYAR_6128GcTUEo", // San Francisco
	"ChIJOwg_06VPwokRYv534QaPC8g", // New York City
	"ChIJzxcfI6qAa4cR1jaKJ_j0jhE", // Denver
}

type Config struct {
	AppEnv      string `yaml:"appEnv"`
	HTTPAddr    string `yaml:"httpAddr"`
	MetricsAddr string `yaml:"metricsAddr"`

	HostawayBase      string `yaml:"hostawayBaseUrl"`
	HostawayAccountID string `yaml:"hostawayAccountId"`
	HostawayKey       string `yaml:"hostawayApiKey"`

	PlacesBase string   `yaml:"placesBaseUrl"`
	PlacesKey  string   `yaml:"placesApiKey"`
	PlaceIDs   []string `yaml:"placeIds"`

	ApprovalBackend string `yaml:"approvalBackend"` // memory|file|redis|mysql
	ApprovalsFile   string `yaml:"approvalsFile"`
	RedisAddr       string `yaml:"redisAddr"`
	RedisPass       string `yaml:"redisPassword"`
	RedisDB         int    `yaml:"redisDb"`
	RedisKey        string `yaml:"redisKey"`
	MySQLDSN        string `yaml:"mysqlDsn"`

	TimeoutSeconds  int           `yaml:"upstreamTimeoutSeconds"`
	UpstreamTimeout time.Duration `yaml:"-"`
}

// HostawayLive reports whether live property reviews are configured.
func (c Config) HostawayLive() bool { return c.HostawayAccountID != "" && c.HostawayKey != "" }

// Load reads .env (if present), an optional YAML file named by REVIEWS_CONFIG,
// then applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("cannot read .env")
	}

	c := defaults()
	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config: cannot read file, using defaults")
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config: cannot parse file, using defaults")
			} else {
				c = merge(c, fileCfg)
			}
		}
	}
	c.applyEnv()

	c.UpstreamTimeout = time.Duration(c.TimeoutSeconds) * time.Second
	if c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty; /api/reviews/google will report NO_API_KEY")
	}
	if !c.HostawayLive() {
		log.Info().Msg("Hostaway credentials not set; property reviews served from fixture")
	}
	return c
}

func defaults() Config {
	return Config{
		AppEnv:          "prod",
		HTTPAddr:        ":4000",
		HostawayBase:    "https://api.hostaway.com/v1",
		PlacesBase:      "https://maps.googleapis.com/maps/api",
		PlaceIDs:        append([]string(nil), DefaultPlaceIDs...),
		ApprovalBackend: "file",
		ApprovalsFile:   "data/approvals.json",
		RedisAddr:       "localhost:6379",
		RedisKey:        "reviews:approved",
		MySQLDSN:        "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		TimeoutSeconds:  8,
	}
}

func (c *Config) applyEnv() {
	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	if p := os.Getenv("PORT"); p != "" {
		c.HTTPAddr = ":" + strings.TrimPrefix(p, ":")
	}
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.HostawayBase = env("HOSTAWAY_BASE_URL", c.HostawayBase)
	c.HostawayAccountID = env("HOSTAWAY_ACCOUNT_ID", c.HostawayAccountID)
	c.HostawayKey = env("HOSTAWAY_API_KEY", c.HostawayKey)
	c.PlacesBase = env("PLACES_BASE_URL", c.PlacesBase)
	c.PlacesKey = env("GOOGLE_PLACES_API_KEY", c.PlacesKey)
	if v := os.Getenv("PLACES_CANDIDATE_IDS"); v != "" {
		c.PlaceIDs = splitList(v)
	}
	c.ApprovalBackend = strings.ToLower(env("APPROVAL_BACKEND", c.ApprovalBackend))
	c.ApprovalsFile = env("APPROVALS_FILE", c.ApprovalsFile)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)
	c.RedisKey = env("REDIS_APPROVALS_KEY", c.RedisKey)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.TimeoutSeconds = atoi("UPSTREAM_TIMEOUT_SECONDS", c.TimeoutSeconds)
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 8
	}
}

// merge copies every non-zero field of override onto base.
func merge(base, override Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.AppEnv, override.AppEnv)
	set(&base.HTTPAddr, override.HTTPAddr)
	set(&base.MetricsAddr, override.MetricsAddr)
	set(&base.HostawayBase, override.HostawayBase)
	set(&base.HostawayAccountID, override.HostawayAccountID)
	set(&base.HostawayKey, override.HostawayKey)
	set(&base.PlacesBase, override.PlacesBase)
	set(&base.PlacesKey, override.PlacesKey)
	set(&base.ApprovalBackend, override.ApprovalBackend)
	set(&base.ApprovalsFile, override.ApprovalsFile)
	set(&base.RedisAddr, override.RedisAddr)
	set(&base.RedisPass, override.RedisPass)
	set(&base.RedisKey, override.RedisKey)
	set(&base.MySQLDSN, override.MySQLDSN)
	if len(override.PlaceIDs) > 0 {
		base.PlaceIDs = override.PlaceIDs
	}
	if override.RedisDB != 0 {
		base.RedisDB = override.RedisDB
	}
	if override.TimeoutSeconds > 0 {
		base.TimeoutSeconds = override.TimeoutSeconds
	}
	return base
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
