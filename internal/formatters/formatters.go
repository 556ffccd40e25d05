package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "EvaluationResult", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "EvaluationResult", &EvaluationMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.EvaluationResult, *types.EvaluationResult:
		return "EvaluationResult"
	default:
		return "any"
	}
}

func asEvaluationResult(data any) (types.EvaluationResult, bool) {
	switch v := data.(type) {
	case types.EvaluationResult:
		return v, true
	case *types.EvaluationResult:
		if v != nil {
			return *v, true
		}
	}
	return types.EvaluationResult{}, false
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// EvaluationTextFormatter handles text formatting for evaluation results
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := asEvaluationResult(data)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME RELEVANCE ===\n\n")
	output.WriteString(fmt.Sprintf("Final Score: %.1f/100 (%s)\n\n", result.FinalScore, result.Verdict))

	output.WriteString("Component Scores:\n")
	output.WriteString(fmt.Sprintf("- Lexical match:  %.1f\n", result.LexicalScore))
	output.WriteString(fmt.Sprintf("- Similarity:     %.1f\n", result.SimilarityScore))
	output.WriteString(fmt.Sprintf("- Compatibility:  %.1f\n", result.CompatibilityScore))
	output.WriteString("\n")

	if len(result.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingQualifications) > 0 {
		output.WriteString("Missing Qualifications:\n")
		for _, qual := range result.MissingQualifications {
			output.WriteString(fmt.Sprintf("- %s\n", qual))
		}
		output.WriteString("\n")
	}

	if len(result.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.CompatibilityNotes) > 0 {
		output.WriteString("Compatibility Notes:\n")
		for _, note := range result.CompatibilityNotes {
			output.WriteString(fmt.Sprintf("- %s\n", note))
		}
		output.WriteString("\n")
	}

	output.WriteString("Feedback:\n")
	output.WriteString(result.Feedback)
	output.WriteString("\n")

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "EvaluationResult"
}

// EvaluationMarkdownFormatter handles markdown formatting for evaluation results
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asEvaluationResult(data)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Relevance Report\n\n")
	output.WriteString(fmt.Sprintf("**Final Score:** %.1f/100\n\n", result.FinalScore))
	output.WriteString(fmt.Sprintf("**Verdict:** %s\n\n", result.Verdict))

	output.WriteString("## Component Scores\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Lexical match | %.1f |\n", result.LexicalScore))
	output.WriteString(fmt.Sprintf("| Similarity | %.1f |\n", result.SimilarityScore))
	output.WriteString(fmt.Sprintf("| Compatibility | %.1f |\n", result.CompatibilityScore))
	output.WriteString("\n")

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingQualifications) > 0 {
		output.WriteString("## Missing Qualifications\n\n")
		for _, qual := range result.MissingQualifications {
			output.WriteString(fmt.Sprintf("- %s\n", qual))
		}
		output.WriteString("\n")
	}

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.CompatibilityNotes) > 0 {
		output.WriteString("## Compatibility Notes\n\n")
		for _, note := range result.CompatibilityNotes {
			output.WriteString(fmt.Sprintf("- %s\n", note))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Feedback\n\n")
	output.WriteString(result.Feedback)
	output.WriteString("\n")

	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "EvaluationResult"
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
