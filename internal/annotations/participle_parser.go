package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParticipleParser parses annotation comments using alecthomas/participle
type ParticipleParser struct {
	parser    *participle.Parser[annotationBody]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// annotationBody is the grammar root: the annotation kind followed by any
// number of parameters and flags
type annotationBody struct {
	Kind  string           `parser:"@Ident"`
	Items []annotationItem `parser:"@@*"`
}

// annotationItem is a single -Name=value parameter or a bare -Name flag
type annotationItem struct {
	Name  string           `parser:"Dash @Ident"`
	Value *annotationValue `parser:"(Equals @@)?"`
}

// annotationValue is a parameter value: a quoted string, a number or a bare
// word such as a dotted event name
type annotationValue struct {
	Text string `parser:"@String | @Number | @Ident"`
}

// NewParticipleParser creates a new parser using participle
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	// Number must come before Dash so negative orders lex as one token
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Number", Pattern: `-?[0-9]+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z0-9_]+)*`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[annotationBody](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{
		parser:    parser,
		registry:  registry,
		validator: NewValidator(),
	}
}

// ParseAnnotation parses an annotation comment into a ParsedAnnotation.
// Parameter values are converted to their schema types and validated, but
// defaults are not applied, so callers can distinguish explicit values.
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	body, err := stripAnnotationMarker(comment, location)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, NewSyntaxErrorWithContext("missing annotation type", location, comment)
	}

	ast, err := p.parser.ParseString(location.File, body)
	if err != nil {
		return nil, NewSyntaxErrorWithContext(fmt.Sprintf("unexpected token: %v", err), location, body)
	}

	parsedType, err := p.parseAnnotationType(ast.Kind)
	if err != nil {
		return nil, NewSchemaErrorWithContext(fmt.Sprintf("unknown annotation type: %s", ast.Kind), location, parsedType)
	}

	parsed := &ParsedAnnotation{
		Type:       parsedType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}

	for _, item := range ast.Items {
		if item.Value != nil {
			value, convErr := p.convertParameterValue(item.Name, item.Value.Text, parsedType)
			if convErr != nil {
				return nil, &ValidationError{
					Parameter: item.Name,
					Expected:  "valid value",
					Actual:    item.Value.Text,
					Loc:       location,
					Hint:      convErr.Error(),
				}
			}
			parsed.Parameters[item.Name] = value
			continue
		}

		switch {
		case p.isBooleanParameter(item.Name, parsedType):
			// A bare boolean flag means true
			parsed.Parameters[item.Name] = true
		case p.isParameterWithDefault(item.Name, parsedType):
			parsed.Parameters[item.Name] = p.getParameterDefault(item.Name, parsedType)
		default:
			// Unknown bare flags are reported by schema validation below
			parsed.Parameters[item.Name] = true
		}
	}

	if p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// ValidateAnnotation applies defaults, normalizes parameter types and runs the
// full schema validation including schema-level validators. Scanners call it
// after filling in the annotation target.
func (p *ParticipleParser) ValidateAnnotation(annotation *ParsedAnnotation) error {
	if p.registry == nil || p.validator == nil {
		return nil
	}

	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return NewSchemaErrorWithContext(
			fmt.Sprintf("schema not found for annotation type: %s", annotation.Type),
			annotation.Location, annotation.Type)
	}

	if err := p.validator.ApplyDefaults(annotation, schema); err != nil {
		return err
	}
	if err := p.validator.TransformParameters(annotation, schema); err != nil {
		return err
	}
	return p.validator.Validate(annotation, schema)
}

// parseAnnotationType converts string to AnnotationType
func (p *ParticipleParser) parseAnnotationType(typeStr string) (AnnotationType, error) {
	annotationType, err := ParseAnnotationType(typeStr)
	if err != nil {
		return 0, err
	}

	if p.registry != nil && !p.registry.IsRegistered(annotationType) {
		return 0, fmt.Errorf("annotation type '%s' is not registered in schema registry", typeStr)
	}

	return annotationType, nil
}

// convertParameterValue converts a raw value to the type its schema declares.
// Quoted strings arrive already unquoted from the lexer.
func (p *ParticipleParser) convertParameterValue(key, raw string, annotationType AnnotationType) (interface{}, error) {
	if p.registry == nil {
		return raw, nil
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return raw, nil
	}

	paramSpec, exists := schema.Parameters[key]
	if !exists {
		// Unknown parameters are reported by schema validation
		return raw, nil
	}

	switch paramSpec.Type {
	case IntType:
		intVal, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got '%s'", raw)
		}
		return intVal, nil
	case BoolType:
		boolVal, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got '%s'", raw)
		}
		return boolVal, nil
	default:
		return raw, nil
	}
}

// validateAgainstSchema checks the provided parameters against the schema
// without applying defaults
func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return NewSchemaErrorWithContext(
			fmt.Sprintf("schema not found for annotation type: %s", annotation.Type),
			annotation.Location, annotation.Type)
	}

	for paramName, paramValue := range annotation.Parameters {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			return &ValidationError{
				Parameter: paramName,
				Expected:  "known parameter",
				Actual:    fmt.Sprintf("unknown parameter '%s'", paramName),
				Loc:       annotation.Location,
				Hint:      generateSchemaSuggestion("parameter not defined", annotation.Type),
			}
		}

		if !isCorrectType(paramValue, paramSpec.Type) {
			return NewValidationErrorWithContext(paramName, paramSpec.Type.String(),
				fmt.Sprintf("%T", paramValue), annotation.Location, annotation.Type)
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				return &ValidationError{
					Parameter: paramName,
					Expected:  "valid value",
					Actual:    fmt.Sprintf("%v", paramValue),
					Loc:       annotation.Location,
					Hint:      err.Error(),
				}
			}
		}
	}

	for paramName, paramSpec := range schema.Parameters {
		if paramSpec.Required {
			if _, exists := annotation.Parameters[paramName]; !exists {
				return NewValidationErrorWithContext(paramName,
					fmt.Sprintf("required parameter of type %s", paramSpec.Type.String()),
					"missing", annotation.Location, annotation.Type)
			}
		}
	}

	return nil
}

// isBooleanParameter checks if a parameter is of boolean type
func (p *ParticipleParser) isBooleanParameter(paramName string, annotationType AnnotationType) bool {
	if p.registry == nil {
		return false
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return false
	}

	paramSpec, exists := schema.Parameters[paramName]
	if !exists {
		return false
	}

	return paramSpec.Type == BoolType
}

// isParameterWithDefault checks if a parameter can be used without a value
func (p *ParticipleParser) isParameterWithDefault(paramName string, annotationType AnnotationType) bool {
	if p.registry == nil {
		return false
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return false
	}

	paramSpec, exists := schema.Parameters[paramName]
	if !exists {
		return false
	}

	return paramSpec.DefaultValue != nil
}

// getParameterDefault gets the default value for a parameter
func (p *ParticipleParser) getParameterDefault(paramName string, annotationType AnnotationType) interface{} {
	if p.registry == nil {
		return nil
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil
	}

	paramSpec, exists := schema.Parameters[paramName]
	if !exists {
		return nil
	}

	return paramSpec.DefaultValue
}
