package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"svgasset/internal/spec"
)

const SupportedSchema = "v1"

const defaultConcurrency = 4

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, resolves
// relative directories against the file's location and returns the parsed
// spec plus the absolute path of the processor options file (if set).
func LoadPipelineSpec(path string) (spec.File, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}

	dir := filepath.Dir(path)
	if cfg.BaseDir == "" {
		return cfg, "", errors.New("pipeline: basedir is required")
	}
	if cfg.DestDir == "" {
		return cfg, "", errors.New("pipeline: dest_dir is required")
	}
	cfg.BaseDir = resolve(dir, cfg.BaseDir)
	cfg.DestDir = resolve(dir, cfg.DestDir)

	if cfg.Processor.Kind == "" {
		cfg.Processor.Kind = "svg"
	}
	if cfg.Sink.Kind == "" {
		cfg.Sink.Kind = "local"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	applyS3Env(&cfg.Sink.S3)

	confPath := cfg.Processor.Config
	if confPath != "" {
		confPath = resolve(dir, confPath)
	}
	return cfg, confPath, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// applyS3Env lets credentials stay out of the pipeline file.
func applyS3Env(s *spec.S3Spec) {
	s.Endpoint = firstNonEmpty(os.Getenv("SVGASSET_S3_ENDPOINT"), s.Endpoint)
	s.Region = firstNonEmpty(os.Getenv("SVGASSET_S3_REGION"), s.Region)
	s.AccessKey = firstNonEmpty(os.Getenv("SVGASSET_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER"), s.AccessKey)
	s.SecretKey = firstNonEmpty(os.Getenv("SVGASSET_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD"), s.SecretKey)
	s.Bucket = firstNonEmpty(os.Getenv("SVGASSET_S3_BUCKET"), s.Bucket)
	if raw := strings.TrimSpace(os.Getenv("SVGASSET_S3_USE_SSL")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.UseSSL = v
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
