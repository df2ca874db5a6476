package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Job describes one dubbing run: which video, which languages, and where the
// artifacts go.
type Job struct {
	VideoFile     string
	OutputDir     string
	SourceLang    string
	TargetLangs   []string
	StorageBucket string
	PhraseHints   []string
	SpeakerCount  int
	Voices        map[string]string
	// AudioEncoding selects the synthesis output format: MP3 or LINEAR16.
	AudioEncoding string

	Subtitles       bool
	DubSource       bool
	NoTranslate     bool
	Fresh           bool
	RegenerateAudio bool
}

// Config holds the full application configuration: the job plus collaborator
// credentials and API call tuning. Credentials are carried here explicitly and
// passed to clients at construction; nothing reads the environment at call time.
type Config struct {
	Job Job

	APIKey    string
	AWSRegion string

	MaxConcurrent      int
	MaxRetries         int
	APIRateLimitPerMin int
}

// Default returns a Config with coded defaults.
func Default() *Config {
	return &Config{
		Job: Job{
			SourceLang:    "en",
			SpeakerCount:  1,
			AudioEncoding: "MP3",
			Subtitles:     true,
		},
		AWSRegion:          "us-east-1",
		MaxConcurrent:      3,
		MaxRetries:         3,
		APIRateLimitPerMin: 30,
	}
}

// Load reads a job config file, applying defaults and DUBBER_* environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	d := Default()
	v.SetDefault("source_lang", d.Job.SourceLang)
	v.SetDefault("speaker_count", d.Job.SpeakerCount)
	v.SetDefault("audio_encoding", d.Job.AudioEncoding)
	v.SetDefault("srt", d.Job.Subtitles)
	v.SetDefault("aws_region", d.AWSRegion)
	v.SetDefault("max_concurrent", d.MaxConcurrent)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("api_rate_limit_per_min", d.APIRateLimitPerMin)

	v.SetEnvPrefix("DUBBER")
	v.AutomaticEnv()
	v.BindEnv("api_key", "DUBBER_API_KEY")
	v.BindEnv("storage_bucket", "DUBBER_STORAGE_BUCKET")
	v.BindEnv("aws_region", "DUBBER_AWS_REGION")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := &Config{
		Job: Job{
			VideoFile:       v.GetString("video_file"),
			OutputDir:       v.GetString("output_dir"),
			SourceLang:      v.GetString("source_lang"),
			TargetLangs:     v.GetStringSlice("target_langs"),
			StorageBucket:   v.GetString("storage_bucket"),
			PhraseHints:     v.GetStringSlice("phrase_hints"),
			SpeakerCount:    v.GetInt("speaker_count"),
			Voices:          v.GetStringMapString("voices"),
			AudioEncoding:   v.GetString("audio_encoding"),
			Subtitles:       v.GetBool("srt"),
			DubSource:       v.GetBool("dub_source"),
			NoTranslate:     v.GetBool("no_translate"),
			Fresh:           v.GetBool("fresh"),
			RegenerateAudio: v.GetBool("regenerate_audio"),
		},
		APIKey:             v.GetString("api_key"),
		AWSRegion:          v.GetString("aws_region"),
		MaxConcurrent:      v.GetInt("max_concurrent"),
		MaxRetries:         v.GetInt("max_retries"),
		APIRateLimitPerMin: v.GetInt("api_rate_limit_per_min"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the job is runnable before any collaborator is called.
func (c *Config) Validate() error {
	if c.Job.VideoFile == "" {
		return fmt.Errorf("config: video_file is required")
	}
	if c.Job.OutputDir == "" {
		return fmt.Errorf("config: output_dir is required")
	}
	if c.Job.SourceLang == "" {
		return fmt.Errorf("config: source_lang is required")
	}
	if len(c.Job.TargetLangs) == 0 && !c.Job.DubSource {
		return fmt.Errorf("config: target_langs is empty and dub_source is off; nothing to dub")
	}
	switch c.Job.AudioEncoding {
	case "", "MP3", "LINEAR16":
	default:
		return fmt.Errorf("config: audio_encoding %q is not MP3 or LINEAR16", c.Job.AudioEncoding)
	}
	// errgroup.SetLimit(0) never admits a goroutine, and a zero rate limit
	// stalls after the first token.
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("config: max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("config: max_retries must be positive, got %d", c.MaxRetries)
	}
	if c.APIRateLimitPerMin <= 0 {
		return fmt.Errorf("config: api_rate_limit_per_min must be positive, got %d", c.APIRateLimitPerMin)
	}
	return nil
}
