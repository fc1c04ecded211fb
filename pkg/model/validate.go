package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Issue is one problem found while validating page data.
type Issue struct {
	Path    string `json:"path"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Path, i.Field, i.Message)
}

// ValidationError aggregates every Issue found by Validate.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return "model: invalid page data: " + strings.Join(msgs, "; ")
}

// Validate checks structural integrity of page data: required identifiers on
// parts, types and images, required identifiers on every component, unique
// component ids and acyclic slot ownership. It does not resolve part ids;
// rendering reports missing parts per component.
func Validate(data PageData) error {
	var issues []Issue

	for _, tier := range Tiers() {
		for ti, typ := range data.Parts.Tier(tier) {
			path := fmt.Sprintf("parts.%s.%d", tier, ti)
			issues = append(issues, structIssues(path, typ)...)
		}
		for ii, img := range data.Images.Tier(tier) {
			path := fmt.Sprintf("images.%s.%d", tier, ii)
			issues = append(issues, structIssues(path, img)...)
		}
	}

	seenIDs := make(map[string]string)
	for i, c := range data.Page {
		issues = append(issues, componentIssues(c, TopLevelPath(i), seenIDs, map[*Component]struct{}{})...)
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func componentIssues(c *Component, path string, seenIDs map[string]string, ancestors map[*Component]struct{}) []Issue {
	if c == nil {
		return []Issue{{Path: path, Message: "component is null"}}
	}
	if _, ok := ancestors[c]; ok {
		return []Issue{{Path: path, Message: "component contains itself"}}
	}
	ancestors[c] = struct{}{}
	defer delete(ancestors, c)

	issues := structIssues(path, c)
	if c.ID != "" {
		if prev, ok := seenIDs[c.ID]; ok {
			issues = append(issues, Issue{Path: path, Field: "id", Message: fmt.Sprintf("duplicate id %q (first seen at %s)", c.ID, prev)})
		} else {
			seenIDs[c.ID] = path
		}
	}
	for _, name := range sortedSlotNames(c.Slots) {
		for i, child := range c.Slots[name] {
			issues = append(issues, componentIssues(child, ChildPath(path, name, i), seenIDs, ancestors)...)
		}
	}
	return issues
}

func structIssues(path string, v any) []Issue {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Path: path, Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		var message string
		switch fe.Tag() {
		case "required":
			message = "is required"
		default:
			message = fmt.Sprintf("failed %q validation", fe.Tag())
		}
		field := fe.Namespace()
		if idx := strings.IndexByte(field, '.'); idx >= 0 {
			field = field[idx+1:]
		}
		issues = append(issues, Issue{Path: path, Field: field, Message: message})
	}
	return issues
}
