package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultRegion is used when the credentials file omits a region.
const DefaultRegion = "us-west-2"

// Credentials holds the Bedrock endpoint credentials, loaded from a local
// JSON file once at startup.
type Credentials struct {
	AccessKeyID     string `json:"aws_access_key_id"`
	SecretAccessKey string `json:"aws_secret_access_key"`
	Region          string `json:"region"`
}

// LoadCredentials reads and validates the credentials file. Absence or
// malformation is a startup-fatal error for the caller.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("invalid JSON in credentials file %s: %w", path, err)
	}

	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, fmt.Errorf("credentials file %s is missing aws_access_key_id or aws_secret_access_key", path)
	}
	if creds.Region == "" {
		creds.Region = DefaultRegion
	}
	return &creds, nil
}
