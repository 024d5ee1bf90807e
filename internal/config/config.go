// Package config handles loading and validation of finmart.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finmart-data/finmart/pkg/types"
	"gopkg.in/yaml.v3"
)

// Load reads and parses finmart.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, "finmart.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *types.ProjectConfig) {
	if cfg.Warehouse.JoinPolicy == "" {
		cfg.Warehouse.JoinPolicy = types.JoinDrop
	}
	if cfg.Job.Engine == "" {
		cfg.Job.Engine = types.EngineLocal
	}
}

func validate(cfg *types.ProjectConfig) error {
	if cfg.Source.PostgresDSN != "" && cfg.Source.SecretARN != "" {
		return fmt.Errorf("source.postgresDSN and source.secretARN are mutually exclusive")
	}
	if !cfg.Warehouse.JoinPolicy.Valid() {
		return fmt.Errorf("warehouse.joinPolicy %q is not one of fail, drop, quarantine", cfg.Warehouse.JoinPolicy)
	}
	if !cfg.Job.Engine.Valid() {
		return fmt.Errorf("job.engine %q is not one of local, glue, emr, emr-serverless", cfg.Job.Engine)
	}
	switch cfg.Job.Engine {
	case types.EngineGlue:
		if cfg.Job.GlueJobName == "" {
			return fmt.Errorf("job.glueJobName is required when engine is glue")
		}
	case types.EngineEMR:
		if cfg.Job.EMRClusterID == "" {
			return fmt.Errorf("job.emrClusterID is required when engine is emr")
		}
		if cfg.Job.EMRStepName == "" {
			return fmt.Errorf("job.emrStepName is required when engine is emr")
		}
		if cfg.Job.EMRJarPath == "" {
			return fmt.Errorf("job.emrJarPath is required when engine is emr")
		}
	case types.EngineEMRServerless:
		if cfg.Job.ApplicationID == "" {
			return fmt.Errorf("job.applicationID is required when engine is emr-serverless")
		}
		if cfg.Job.JobName == "" {
			return fmt.Errorf("job.jobName is required when engine is emr-serverless")
		}
	}
	return nil
}
