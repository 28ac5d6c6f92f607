package service

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every runtime knob for the two services. Values come
// from the environment with defaults matching long-standing production
// settings; nothing here is required except the directory credentials.
type Config struct {
	Port int

	// outbound directory API
	BaseURL     string
	ActionURL   string
	ApiKey      string
	BearerToken string
	Source      string

	OutboundTimeout time.Duration
	MaxRetries      int
	BackoffFactor   float64
	OutboundRPS     float64
	OutboundBurst   int

	// batch intake
	MinRecords  int
	MaxRecords  int
	Workers     int
	MaxInflight int
	SubmitDelay time.Duration
	JobTTL      time.Duration

	// push delivery
	AckRemoteRejections bool

	LogDir        string
	DevShowDetail bool
}

// Load reads the environment. Call once at startup.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("LITMOS_API_URL", "https://api.litmos.com/v1.svc")
	v.SetDefault("LITMOS_SOURCE", "usertool")
	v.SetDefault("OUTBOUND_TIMEOUT", 30)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("BACKOFF_FACTOR", 2.0)
	v.SetDefault("OUTBOUND_RPS", 0)
	v.SetDefault("OUTBOUND_BURST", 1)
	v.SetDefault("MIN_RECORDS", 30)
	v.SetDefault("MAX_RECORDS", 100)
	v.SetDefault("BG_MAX_WORKERS", 2)
	v.SetDefault("BG_MAX_INFLIGHT", 4)
	v.SetDefault("USER_OP_DELAY", 0.02)
	v.SetDefault("JOB_TTL_HOURS", 24)
	v.SetDefault("PUSH_ACK_REMOTE_REJECTIONS", false)
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("DEV_SHOW_TRACEBACK", false)

	delay := time.Duration(v.GetFloat64("USER_OP_DELAY") * float64(time.Second))
	if delay == 0 {
		// zero means "no pacing", not "use the default"
		delay = -1
	}

	return Config{
		Port:        v.GetInt("PORT"),
		BaseURL:     v.GetString("LITMOS_API_URL"),
		ActionURL:   v.GetString("LITMOS_ACTION_URL"),
		ApiKey:      v.GetString("LITMOS_API_KEY"),
		BearerToken: v.GetString("LITMOS_BEARER_TOKEN"),
		Source:      v.GetString("LITMOS_SOURCE"),

		OutboundTimeout: time.Duration(v.GetInt("OUTBOUND_TIMEOUT")) * time.Second,
		MaxRetries:      v.GetInt("MAX_RETRIES"),
		BackoffFactor:   v.GetFloat64("BACKOFF_FACTOR"),
		OutboundRPS:     v.GetFloat64("OUTBOUND_RPS"),
		OutboundBurst:   v.GetInt("OUTBOUND_BURST"),

		MinRecords:  v.GetInt("MIN_RECORDS"),
		MaxRecords:  v.GetInt("MAX_RECORDS"),
		Workers:     v.GetInt("BG_MAX_WORKERS"),
		MaxInflight: v.GetInt("BG_MAX_INFLIGHT"),
		SubmitDelay: delay,
		JobTTL:      time.Duration(v.GetInt("JOB_TTL_HOURS")) * time.Hour,

		AckRemoteRejections: v.GetBool("PUSH_ACK_REMOTE_REJECTIONS"),

		LogDir:        v.GetString("LOG_DIR"),
		DevShowDetail: v.GetBool("DEV_SHOW_TRACEBACK"),
	}
}
