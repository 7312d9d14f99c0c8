package budget

import (
	"fmt"
	"strings"
	"unicode"
)

type InvalidCategoryNameError struct {
	Reason string
}

func (e InvalidCategoryNameError) Error() string {
	return fmt.Sprintf("invalid category name: %s", e.Reason)
}

// CategoryName is a non-empty, slash-separated hierarchical name such as
// "food" or "utils/electricity". Each segment is non-empty and consists of
// letters, digits, hyphens and underscores only.
type CategoryName struct {
	v string
}

func NewCategoryName(value string) (CategoryName, error) {
	if value == "" {
		return CategoryName{}, InvalidCategoryNameError{
			Reason: "category name must not be empty",
		}
	}
	if strings.HasPrefix(value, "/") {
		return CategoryName{}, InvalidCategoryNameError{
			Reason: "category name must not start with '/'",
		}
	}
	if strings.HasSuffix(value, "/") {
		return CategoryName{}, InvalidCategoryNameError{
			Reason: "category name must not end with '/'",
		}
	}
	if strings.Contains(value, "//") {
		return CategoryName{}, InvalidCategoryNameError{
			Reason: "category name must not contain empty segments (double slashes)",
		}
	}

	for _, segment := range strings.Split(value, "/") {
		if segment == "" {
			return CategoryName{}, InvalidCategoryNameError{
				Reason: "category name must not contain empty segments",
			}
		}
		for _, r := range segment {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
				return CategoryName{}, InvalidCategoryNameError{
					Reason: fmt.Sprintf(
						"segment '%s' contains invalid characters; only alphanumeric, hyphens, and underscores are allowed",
						segment,
					),
				}
			}
		}
	}

	return CategoryName{v: value}, nil
}

func (n CategoryName) String() string {
	return n.v
}
