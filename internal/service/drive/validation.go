package drive

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
)

var nameRule = validation.Match(regexp.MustCompile(`^[^/\\]+$`)).Error("name cannot contain slashes")

var errReservedName = validation.NewError("validation_reserved_name", "name cannot be . or ..")

func notDotName(value any) error {
	s, _ := value.(string)
	if s == "." || s == ".." {
		return errReservedName
	}
	return nil
}

// validateName checks a folder or file name after trimming
func validateName(name string, maxLen int) error {
	err := validation.Validate(name,
		validation.Required.Error("name is required"),
		validation.Length(1, maxLen),
		nameRule,
		validation.By(notDotName),
	)
	return asValidationError(err)
}

func validateItemType(t models.ItemType) error {
	if _, err := models.ParseItemType(string(t)); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func maxNameLength(t models.ItemType) int {
	if t == models.ItemTypeFolder {
		return config.MaxFolderNameLength
	}
	return config.MaxFileNameLength
}

// normalizeTags trims, drops empties and duplicates, and validates the result
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}

	err := validation.Validate(out,
		validation.Length(0, config.MaxTags),
		validation.Each(validation.Length(1, config.MaxTagLength)),
	)
	if err != nil {
		return nil, asValidationError(err)
	}
	return out, nil
}

// asValidationError converts ozzo errors into the domain ValidationError
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal
	}
	return &domain.ValidationError{Message: err.Error()}
}
