package analyst

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/go-playground/validator/v10"
)

var schemaValidator = validator.New()

var errNoJSONObject = errors.New("no JSON object in response")

// Object and list keys that must be present, even when empty. Dotted paths walk nested objects.
var (
	summaryRequiredKeys = []string{
		"detailed_analysis.file_overview",
		"detailed_analysis.core_components",
		"detailed_analysis.dependencies.imports",
		"detailed_analysis.dependencies.global_dependencies",
		"detailed_analysis.security_considerations",
	}
	analysisRequiredKeys = []string{
		"detailed_analysis.change_overview.scope",
		"detailed_analysis.functional_impact",
		"detailed_analysis.security_assessment.risks",
		"detailed_analysis.security_assessment.improvements",
		"detailed_analysis.recommendations.review_focus",
		"detailed_analysis.recommendations.additional_testing",
	}
)

// extractJSON strips markdown fences and narrows raw down to its outermost object
func extractJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	for _, fence := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(cleaned, fence) {
			cleaned = strings.TrimPrefix(cleaned, fence)
			break
		}
	}
	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))

	if json.Valid([]byte(cleaned)) && strings.HasPrefix(cleaned, "{") {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", errNoJSONObject
	}
	return cleaned[start : end+1], nil
}

// decodeResponse parses raw into out, checks that every required key is present
// and validates out against the struct's validate tags
func decodeResponse(operation, raw string, out any, required []string) error {
	body, err := extractJSON(raw)
	if err != nil {
		return &common.MalformedAIResponseError{Operation: operation, Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &common.MalformedAIResponseError{Operation: operation, Raw: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	if missing := missingKeys([]byte(body), required); len(missing) > 0 {
		return &common.MalformedAIResponseError{Operation: operation, Raw: raw, Err: fmt.Errorf("schema: missing %s", strings.Join(missing, ", "))}
	}
	if err := schemaValidator.Struct(out); err != nil {
		return &common.MalformedAIResponseError{Operation: operation, Raw: raw, Err: schemaError(err)}
	}
	return nil
}

// missingKeys returns the paths absent from body. A null value counts as absent.
func missingKeys(body []byte, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return paths
	}

	var missing []string
	for _, path := range paths {
		var node any = doc
		for _, key := range strings.Split(path, ".") {
			obj, ok := node.(map[string]any)
			if !ok {
				node = nil
				break
			}
			node = obj[key]
		}
		if node == nil {
			missing = append(missing, path)
		}
	}
	return missing
}

func schemaError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
}
