package config

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/finmart-data/finmart/pkg/types"
)

// SecretsAPI is the subset of the AWS Secrets Manager client used by this
// package.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// dbSecret is the JSON shape of a database credentials secret.
type dbSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"dbname"`
}

// ResolveDSN returns the Postgres connection string for the configured
// source. An inline DSN is returned as-is; a secret ARN is fetched from
// Secrets Manager and assembled into a DSN. client may be nil, in which case
// a real client is built from the ambient AWS configuration.
func ResolveDSN(ctx context.Context, cfg *types.ProjectConfig, client SecretsAPI) (string, error) {
	if cfg.Source.PostgresDSN != "" {
		return cfg.Source.PostgresDSN, nil
	}
	if cfg.Source.SecretARN == "" {
		return "", fmt.Errorf("source: one of postgresDSN or secretARN is required")
	}

	if client == nil {
		var optFns []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return "", fmt.Errorf("loading AWS config: %w", err)
		}
		client = secretsmanager.NewFromConfig(awsCfg)
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &cfg.Source.SecretARN,
	})
	if err != nil {
		return "", fmt.Errorf("fetching database secret: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("database secret %s has no string value", cfg.Source.SecretARN)
	}

	var sec dbSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &sec); err != nil {
		return "", fmt.Errorf("parsing database secret: %w", err)
	}
	if sec.Host == "" || sec.Username == "" || sec.DBName == "" {
		return "", fmt.Errorf("database secret %s is missing host, username, or dbname", cfg.Source.SecretARN)
	}
	if sec.Port == 0 {
		sec.Port = 5432
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", sec.Username, sec.Password, sec.Host, sec.Port, sec.DBName), nil
}
