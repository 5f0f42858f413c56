package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formfield/pkg/model"
)

// validator holds the required/format rules for one key. Messages are
// reported in a fixed order: required, bounds, lengths, pattern.
type validator struct {
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

func newValidator(desc model.Descriptor) validator {
	v := validator{required: desc.Required}
	for _, rule := range desc.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(rule.Params["value"]); ok {
				v.min = &val
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(rule.Params["value"]); ok {
				v.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(rule.Params["value"]); ok {
				v.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(rule.Params["value"]); ok {
				v.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := rule.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					v.pattern = re
				}
			}
		}
	}
	return v
}

func (v validator) validate(value any) []string {
	if isEmpty(value) {
		if v.required {
			return []string{"required"}
		}
		return nil
	}

	var msgs []string
	if num, ok := numeric(value); ok {
		if v.min != nil && num < *v.min {
			msgs = append(msgs, fmt.Sprintf("min %v", *v.min))
		}
		if v.max != nil && num > *v.max {
			msgs = append(msgs, fmt.Sprintf("max %v", *v.max))
		}
	}
	if s, ok := value.(string); ok {
		length := utf8.RuneCountInString(s)
		if v.minLen != nil && length < *v.minLen {
			msgs = append(msgs, fmt.Sprintf("min length %d", *v.minLen))
		}
		if v.maxLen != nil && length > *v.maxLen {
			msgs = append(msgs, fmt.Sprintf("max length %d", *v.maxLen))
		}
		if v.pattern != nil && !v.pattern.MatchString(s) {
			msgs = append(msgs, "does not match required pattern")
		}
	}
	return msgs
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func numeric(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		return parseFloat(strings.TrimSpace(n))
	default:
		return 0, false
	}
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
