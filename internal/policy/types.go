package policy

import models "drive/internal/domain/models/drive"

// Document is the on-disk shape of policy.yaml
type Document struct {
	Operations map[string]models.AccessLevel `yaml:"operations"`
	Public     []string                      `yaml:"public"`
}
