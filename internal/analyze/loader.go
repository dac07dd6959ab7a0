package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	dir       string
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer. Patterns are resolved relative to dir,
// or the current directory when dir is empty.
func NewAnalyzer(dir string) *Analyzer {
	return &Analyzer{
		dir:       dir,
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/social").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Every loaded package is registered first so named types declared in
	// a later package are not mistaken for external ones.
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{
			Path: pkg.PkgPath,
			Name: pkg.Name,
		}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.PkgPath,
			Name:    name,
		}

		typeInfo := a.analyzeType(typeName.Type())
		typeInfo.ID = typeID

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	default:
		// Channels, functions and signatures cannot be mapped.
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	info.ID = TypeID{Name: obj.Name()}
	if obj.Pkg() != nil {
		info.ID.PkgPath = obj.Pkg().Path()
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		if a.isExternalPackage(info.ID.PkgPath) {
			// time.Time and friends are values, not domain classes.
			info.Kind = TypeKindExternal
			return
		}
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Basic:
		// Named basic type (e.g., type Stars int)
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)

	default:
		if a.isExternalPackage(info.ID.PkgPath) {
			info.Kind = TypeKindExternal
			return
		}
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type. Unexported fields
// are kept because the metadata builder maps them too.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}
	return info, nil
}
