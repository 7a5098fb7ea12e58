package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/synapse/internal/annotations"
	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileSet *token.FileSet
	engine  annotations.ParserEngine
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet: token.NewFileSet(),
		engine:  annotations.NewParser(annotations.DefaultRegistry()),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	found, err := p.ExtractAnnotations(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to extract annotations: %w", err)
	}

	fileMap := map[string]*ast.File{
		filename: file,
	}

	err = p.processAnnotations(found, metadata, fileMap)
	if err != nil {
		return nil, fmt.Errorf("failed to process annotations: %w", err)
	}

	return metadata, nil
}

// ParseDirectory scans the specified directory for .go files and extracts annotations
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	// Test files are excluded so generated registrations never reference test-only types
	// (and so external _test packages do not trip the single-package check)
	pkgs, err := parser.ParseDir(p.fileSet, path, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", path, err)
	}

	// We expect only one package per directory
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
		break
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	// First pass: extract all annotations from all files, in stable file order
	fileNames := make([]string, 0, len(pkg.Files))
	fileMap := make(map[string]*ast.File, len(pkg.Files))
	for fileName, file := range pkg.Files {
		fileNames = append(fileNames, fileName)
		fileMap[fileName] = file
	}
	sort.Strings(fileNames)

	allAnnotations := []models.Annotation{}
	for _, fileName := range fileNames {
		found, err := p.ExtractAnnotations(fileMap[fileName], fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract annotations from file %s: %w", fileName, err)
		}
		allAnnotations = append(allAnnotations, found...)
	}

	// Second pass: process all annotations into metadata structures
	err = p.processAnnotations(allAnnotations, metadata, fileMap)
	if err != nil {
		return nil, err
	}

	return metadata, nil
}

// ExtractAnnotations traverses the AST and extracts synapse:: annotations from comments
func (p *Parser) ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error) {
	var found []models.Annotation
	var scanErr error

	ast.Inspect(file, func(n ast.Node) bool {
		if scanErr != nil {
			return false
		}

		switch node := n.(type) {
		case *ast.GenDecl:
			if node.Tok != token.TYPE {
				return true
			}
			for _, spec := range node.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				// Grouped type blocks attach docs to the TypeSpec, single decls to the GenDecl
				doc := typeSpec.Doc
				if doc == nil {
					doc = node.Doc
				}
				if doc == nil {
					continue
				}

				_, isStruct := typeSpec.Type.(*ast.StructType)
				for _, comment := range doc.List {
					if !annotations.IsAnnotationComment(comment.Text) {
						continue
					}
					parsed, err := p.parseAnnotationComment(comment, fileName)
					if err != nil {
						scanErr = err
						return false
					}
					if isStruct {
						parsed.Target = typeSpec.Name.Name
					}
					// Non-struct targets leave Target empty and fail validation
					// with the struct attachment requirement
					if err := p.engine.ValidateAnnotation(parsed); err != nil {
						scanErr = err
						return false
					}
					found = append(found, models.Annotation{
						ParsedAnnotation: parsed,
						FileName:         fileName,
						Line:             parsed.Location.Line,
					})
				}
			}

		case *ast.FuncDecl:
			if node.Doc == nil {
				return true
			}
			for _, comment := range node.Doc.List {
				if !annotations.IsAnnotationComment(comment.Text) {
					continue
				}
				parsed, err := p.parseAnnotationComment(comment, fileName)
				if err != nil {
					scanErr = err
					return false
				}
				if err := p.engine.ValidateAnnotation(parsed); err != nil {
					scanErr = err
					return false
				}
			}
		}
		return true
	})

	if scanErr != nil {
		return nil, scanErr
	}
	return found, nil
}

// parseAnnotationComment runs a single comment line through the annotation engine
func (p *Parser) parseAnnotationComment(comment *ast.Comment, fileName string) (*annotations.ParsedAnnotation, error) {
	pos := p.fileSet.Position(comment.Pos())
	loc := annotations.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}
	return p.engine.ParseAnnotation(comment.Text, loc)
}

// processAnnotations builds metadata structures from parsed annotations
func (p *Parser) processAnnotations(annos []models.Annotation, metadata *models.PackageMetadata, fileMap map[string]*ast.File) error {
	// First pass: collect annotated event struct names so listener event refs and
	// embedded-event checks can see siblings declared later in the package
	eventStructs := make(map[string]bool)
	for _, a := range annos {
		if a.Type == annotations.EventAnnotation {
			eventStructs[a.Target] = true
		}
	}

	// Second pass: build listener and event metadata, detecting duplicates
	listenersSeen := make(map[string]bool)
	eventNames := make(map[string]string) // resolved event name -> struct name

	for _, a := range annos {
		switch a.Type {
		case annotations.ListenerAnnotation:
			if listenersSeen[a.Target] {
				return errors.NewRegistrationError("listener", a.Target, "duplicate listener annotation").
					WithLocation(errors.SourceLocation{File: a.FileName, Line: a.Line})
			}
			listenersSeen[a.Target] = true

			listener, err := p.processListener(a, fileMap)
			if err != nil {
				return err
			}
			metadata.Listeners = append(metadata.Listeners, *listener)

		case annotations.EventAnnotation:
			event, err := p.processEvent(a, fileMap, eventStructs)
			if err != nil {
				return err
			}
			if existing, taken := eventNames[event.EventName]; taken {
				return errors.NewEventConflictError(event.EventName, event.StructName, a.FileName, a.Line, existing)
			}
			eventNames[event.EventName] = event.StructName
			metadata.Events = append(metadata.Events, *event)
		}
	}

	return nil
}

// processListener builds listener metadata from a listener annotation
func (p *Parser) processListener(a models.Annotation, fileMap map[string]*ast.File) (*models.ListenerMetadata, error) {
	structName := a.Target

	handler, err := p.findHandlerMethod(fileMap, structName, a.FileName, a.Line)
	if err != nil {
		return nil, err
	}

	eventType, err := p.extractEventType(handler, fileMap)
	if err != nil {
		return nil, err
	}

	builder := models.NewMetadataBuilder(structName, structName).
		WithSource(a.FileName, a.Line).
		WithEventType(*eventType).
		WithMethod(handler.decl.Name.Name).
		WithAsync(a.GetBool(ParamAsync)).
		WithCondition(a.GetString(ParamCondition))

	if a.HasParameter(ParamOrder) {
		builder = builder.WithOrder(a.GetInt(ParamOrder))
	}
	if a.HasParameter(ParamPriority) {
		builder = builder.WithPriority(a.GetInt(ParamPriority))
	}
	if constructor := p.findConstructor(fileMap, structName); constructor != "" {
		builder = builder.WithConstructor(constructor)
	}

	return builder.BuildListener(), nil
}

// processEvent builds event metadata from an event annotation
func (p *Parser) processEvent(a models.Annotation, fileMap map[string]*ast.File, eventStructs map[string]bool) (*models.EventMetadata, error) {
	structName := a.Target

	structType := p.findStructType(fileMap[a.FileName], structName)
	if structType == nil {
		return nil, errors.NewScanError(errors.ValidationErrorCode,
			fmt.Sprintf("struct declaration for event '%s' not found in %s", structName, a.FileName)).
			WithTargetKind("event").
			WithTypeName(structName)
	}

	embedsBase := p.embedsEventBase(structType, eventStructs)
	if !embedsBase && !p.hasSourceMethod(fileMap, structName) {
		return nil, errors.NewEventEmbedError(structName, a.FileName, a.Line)
	}

	explicit := a.HasParameter(ParamName)
	eventName := a.GetString(ParamName)
	if !explicit {
		eventName = strings.ToLower(structName)
	}

	return models.NewMetadataBuilder(structName, structName).
		WithSource(a.FileName, a.Line).
		BuildEvent(eventName, explicit, embedsBase), nil
}

// handlerCandidate pairs a discovered handler method with the file declaring it
type handlerCandidate struct {
	decl *ast.FuncDecl
	file string
}

// findHandlerMethod locates the handler method for a listener struct.
//
// Every exported method with the handler shape (context.Context, named event type)
// error is a candidate. A single candidate wins outright; among several, the
// conventional Handle name breaks the tie; otherwise the set is ambiguous.
func (p *Parser) findHandlerMethod(fileMap map[string]*ast.File, structName, annFile string, annLine int) (*handlerCandidate, error) {
	var candidates []handlerCandidate
	var misshapenHandle *handlerCandidate
	var misshapenIssue string

	fileNames := sortedFileNames(fileMap)
	for _, fileName := range fileNames {
		ast.Inspect(fileMap[fileName], func(n ast.Node) bool {
			funcDecl, ok := n.(*ast.FuncDecl)
			if !ok {
				return true
			}
			if receiverTypeName(funcDecl) != structName || !funcDecl.Name.IsExported() {
				return true
			}
			if issue := p.checkHandlerSignature(funcDecl); issue == "" {
				candidates = append(candidates, handlerCandidate{decl: funcDecl, file: fileName})
			} else if funcDecl.Name.Name == HandlerMethodName {
				misshapenHandle = &handlerCandidate{decl: funcDecl, file: fileName}
				misshapenIssue = issue
			}
			return true
		})
	}

	switch len(candidates) {
	case 0:
		if misshapenHandle != nil {
			pos := p.fileSet.Position(misshapenHandle.decl.Pos())
			return nil, errors.NewListenerSignatureError(structName, HandlerMethodName, misshapenHandle.file, pos.Line, misshapenIssue)
		}
		return nil, errors.NewListenerHandlerMissingError(structName, annFile, annLine)
	case 1:
		return &candidates[0], nil
	}

	for i := range candidates {
		if candidates[i].decl.Name.Name == HandlerMethodName {
			return &candidates[i], nil
		}
	}

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.decl.Name.Name)
	}
	sort.Strings(names)
	return nil, errors.NewListenerConflictError(structName, annFile, annLine, names)
}

// checkHandlerSignature reports why a method does not have the handler shape,
// or "" when it does
func (p *Parser) checkHandlerSignature(funcDecl *ast.FuncDecl) string {
	params := funcDecl.Type.Params
	if params == nil || len(params.List) != 2 || len(params.List[0].Names) > 1 || len(params.List[1].Names) > 1 {
		return "expected exactly two parameters (context.Context and the event type)"
	}

	if !isContextContext(params.List[0].Type) {
		return fmt.Sprintf("first parameter must be context.Context, got %s", p.getTypeString(params.List[0].Type))
	}

	if issue := p.checkEventParam(params.List[1].Type); issue != "" {
		return issue
	}

	results := funcDecl.Type.Results
	if results == nil || len(results.List) != 1 {
		return "expected a single error return value"
	}
	if ident, ok := results.List[0].Type.(*ast.Ident); !ok || ident.Name != "error" {
		return fmt.Sprintf("return value must be error, got %s", p.getTypeString(results.List[0].Type))
	}

	return ""
}

// checkEventParam reports why a type expression cannot serve as the event parameter
func (p *Parser) checkEventParam(expr ast.Expr) string {
	t := expr
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}

	switch typ := t.(type) {
	case *ast.Ident:
		if isPredeclaredType(typ.Name) {
			return fmt.Sprintf("second parameter must be a named event type, got %s", p.getTypeString(expr))
		}
		return ""
	case *ast.SelectorExpr:
		if _, ok := typ.X.(*ast.Ident); !ok {
			return fmt.Sprintf("second parameter must be a named event type, got %s", p.getTypeString(expr))
		}
		return ""
	default:
		return fmt.Sprintf("second parameter must be a named event type, got %s", p.getTypeString(expr))
	}
}

// extractEventType resolves the handler's event parameter into a type reference
func (p *Parser) extractEventType(handler *handlerCandidate, fileMap map[string]*ast.File) (*models.EventTypeRef, error) {
	expr := handler.decl.Type.Params.List[1].Type
	ref := models.EventTypeRef{}

	if star, ok := expr.(*ast.StarExpr); ok {
		ref.IsPointer = true
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.Ident:
		ref.TypeName = t.Name
	case *ast.SelectorExpr:
		pkgIdent := t.X.(*ast.Ident)
		ref.TypeName = t.Sel.Name
		ref.PackageName = pkgIdent.Name

		importPath, ok := resolveImportPath(fileMap[handler.file], pkgIdent.Name)
		if !ok {
			pos := p.fileSet.Position(handler.decl.Pos())
			return nil, errors.NewEventImportError(pkgIdent.Name+"."+t.Sel.Name, handler.file, pos.Line, pkgIdent.Name)
		}
		ref.Package = importPath
	}

	return &ref, nil
}

// resolveImportPath maps a package identifier to its import path using the file's imports
func resolveImportPath(file *ast.File, pkgName string) (string, bool) {
	if file == nil {
		return "", false
	}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == pkgName {
				return path, true
			}
			continue
		}
		if lastPathSegment(path) == pkgName {
			return path, true
		}
	}
	return "", false
}

func lastPathSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// findConstructor looks for a NewX constructor function for the listener struct.
// The constructor must return *X, optionally with a trailing error.
func (p *Parser) findConstructor(fileMap map[string]*ast.File, structName string) string {
	constructorName := ConstructorPrefix + structName

	for _, fileName := range sortedFileNames(fileMap) {
		var found bool
		ast.Inspect(fileMap[fileName], func(n ast.Node) bool {
			funcDecl, ok := n.(*ast.FuncDecl)
			if !ok {
				return true
			}
			if funcDecl.Recv != nil || funcDecl.Name.Name != constructorName {
				return true
			}
			if constructorReturnsPointer(funcDecl, structName) {
				found = true
				return false
			}
			return true
		})
		if found {
			return constructorName
		}
	}
	return ""
}

// constructorReturnsPointer checks that a constructor's first result is *structName
// with at most a trailing error result
func constructorReturnsPointer(funcDecl *ast.FuncDecl, structName string) bool {
	results := funcDecl.Type.Results
	if results == nil || len(results.List) == 0 || len(results.List) > 2 {
		return false
	}

	star, ok := results.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	ident, ok := star.X.(*ast.Ident)
	if !ok || ident.Name != structName {
		return false
	}

	if len(results.List) == 2 {
		errIdent, ok := results.List[1].Type.(*ast.Ident)
		if !ok || errIdent.Name != "error" {
			return false
		}
	}
	return true
}

// findStructType locates the struct type declaration for the given name in a file
func (p *Parser) findStructType(file *ast.File, structName string) *ast.StructType {
	if file == nil {
		return nil
	}

	var structType *ast.StructType
	ast.Inspect(file, func(n ast.Node) bool {
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok || typeSpec.Name.Name != structName {
			return true
		}
		if st, ok := typeSpec.Type.(*ast.StructType); ok {
			structType = st
		}
		return false
	})
	return structType
}

// embedsEventBase checks whether a struct carries event identity through embedding:
// either the synapse.BaseEvent base type or another annotated event in the package
func (p *Parser) embedsEventBase(structType *ast.StructType, eventStructs map[string]bool) bool {
	for _, field := range structType.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		expr := field.Type
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}

		switch t := expr.(type) {
		case *ast.SelectorExpr:
			if t.Sel.Name == BaseEventTypeName {
				return true
			}
		case *ast.Ident:
			if t.Name == BaseEventTypeName || eventStructs[t.Name] {
				return true
			}
		}
	}
	return false
}

// hasSourceMethod checks for a Source() any method on the struct, the direct way
// to satisfy the event interface without embedding
func (p *Parser) hasSourceMethod(fileMap map[string]*ast.File, structName string) bool {
	for _, file := range fileMap {
		var found bool
		ast.Inspect(file, func(n ast.Node) bool {
			funcDecl, ok := n.(*ast.FuncDecl)
			if !ok {
				return true
			}
			if receiverTypeName(funcDecl) != structName || funcDecl.Name.Name != SourceMethodName {
				return true
			}
			if funcDecl.Type.Params != nil && len(funcDecl.Type.Params.List) > 0 {
				return true
			}
			results := funcDecl.Type.Results
			if results == nil || len(results.List) != 1 {
				return true
			}
			if isAnyType(results.List[0].Type) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// receiverTypeName extracts the receiver type name from a method declaration
func receiverTypeName(funcDecl *ast.FuncDecl) string {
	if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
		return ""
	}
	switch recv := funcDecl.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if ident, ok := recv.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.Ident:
		return recv.Name
	}
	return ""
}

// isContextContext checks if the given type expression represents context.Context
func isContextContext(expr ast.Expr) bool {
	if selectorExpr, ok := expr.(*ast.SelectorExpr); ok {
		if ident, ok := selectorExpr.X.(*ast.Ident); ok {
			return ident.Name == "context" && selectorExpr.Sel.Name == "Context"
		}
	}
	return false
}

// isAnyType checks if the given type expression is any or the empty interface
func isAnyType(expr ast.Expr) bool {
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name == "any"
	}
	if iface, ok := expr.(*ast.InterfaceType); ok {
		return iface.Methods == nil || len(iface.Methods.List) == 0
	}
	return false
}

// isPredeclaredType reports whether a name is a Go predeclared type, which can
// never serve as an event type
func isPredeclaredType(name string) bool {
	switch name {
	case "bool", "string", "error", "any", "byte", "rune", "uintptr",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "complex64", "complex128":
		return true
	}
	return false
}

// sortedFileNames returns the file map keys in stable order
func sortedFileNames(fileMap map[string]*ast.File) []string {
	names := make([]string, 0, len(fileMap))
	for name := range fileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getTypeString converts an AST type expression to a string representation
func (p *Parser) getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + p.getTypeString(t.X)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.ArrayType:
		return "[]" + p.getTypeString(t.Elt)
	case *ast.MapType:
		return "map[" + p.getTypeString(t.Key) + "]" + p.getTypeString(t.Value)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.FuncType:
		return "func(...)"
	case *ast.ChanType:
		return "chan " + p.getTypeString(t.Value)
	default:
		return "unknown"
	}
}
