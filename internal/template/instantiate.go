package template

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// fillDefaults appends bindings for every trailing template parameter
// that was not explicitly supplied or deduced, from its default
// argument: a non-type default must be an integer literal, and a type
// default is bound as parsed. Defaults are not substituted against
// earlier, already-bound parameters.
func fillDefaults(tys *types.Registry, in *intern.Table, params []ast.TemplateParam, bindings Bindings) bool {
	for _, p := range params {
		if _, bound := bindings[p.Name]; bound {
			continue
		}
		if !p.HasDefault {
			return false
		}
		if p.IsNonType {
			lit, ok := p.Default.(*ast.NumericLiteralNode)
			if !ok {
				return false
			}
			bindings[p.Name] = Arg{Kind: ArgNonType, Value: int64(lit.IntValue)}
			continue
		}
		bindings[p.Name] = Arg{Kind: ArgType, Type: p.DefaultType}
	}
	return true
}

// orderedArgs renders bindings back into the positional []Arg a cache
// key and canonical name need, in the template's own parameter order.
func orderedArgs(params []ast.TemplateParam, bindings Bindings) []Arg {
	args := make([]Arg, 0, len(params))
	for _, p := range params {
		if a, ok := bindings[p.Name]; ok {
			args = append(args, a)
		}
	}
	return args
}

// GetInstantiatedClassName returns the canonical instantiation name for
// (name, args) without instantiating anything — 's
// get_instantiated_class_name contract.
func (r *Registry) GetInstantiatedClassName(name intern.Handle, args []Arg) intern.Handle {
	canon := CanonicalInstantiationName(r.interner, name, args, r.types)
	return r.interner.Intern(canon)
}

// TryInstantiateClassTemplate instantiates (or returns the cached
// instantiation of) a class template applied to explicit args. It only
// performs the Declaration phase; callers needing layout call
// EnsureLayout, and callers needing a member's body call
// EnsureMemberDefinition — a lazy three-phase instantiation model.
func (r *Registry) TryInstantiateClassTemplate(name intern.Handle, args []Arg) (*Instantiation, bool) {
	def, ok := r.defs[name]
	if !ok || def.Kind != KindClass {
		return nil, false
	}
	if inst, ok := r.cacheLookup(name, args); ok {
		return inst, true // idempotent: identical args hit the cache
	}

	bindings := make(Bindings)
	for i, p := range def.Params {
		if i < len(args) {
			bindings[p.Name] = args[i]
		}
	}
	if !fillDefaults(r.types, r.interner, def.Params, bindings) {
		return nil, false
	}
	finalArgs := orderedArgs(def.Params, bindings)
	canonName := r.interner.Intern(CanonicalInstantiationName(r.interner, name, finalArgs, r.types))

	classIdx := r.types.DeclareStruct(canonName)
	classInfo := r.types.Get(classIdx).Struct
	classInfo.IsTemplateInstantiation = true
	classInfo.BaseTemplateName = name
	classInfo.IsIncompleteInstantiation = true
	classInfo.TemplateArgs = make([]types.Index, 0, len(finalArgs))
	for _, a := range finalArgs {
		if a.Kind == ArgType {
			classInfo.TemplateArgs = append(classInfo.TemplateArgs, a.Type)
		}
	}

	inst := &Instantiation{
		Definition:     def,
		Args:           finalArgs,
		Name:           canonName,
		Phase:          PhaseDeclaration,
		ClassType:      classIdx,
		pendingMembers: make(map[intern.Handle]bool),
	}
	r.cacheStore(inst)
	return inst, true
}

// EnsureLayout transitions inst from Declaration to Layout, substituting
// field types and computing offsets — triggered by sizeof(T<...>) or
// any member access
func (r *Registry) EnsureLayout(inst *Instantiation, arena *ast.Arena) {
	if inst.Phase >= PhaseLayout {
		return
	}
	bindings := r.rebind(inst)
	decl := inst.Definition.ClassDecl.Underlying
	classInfo := r.types.Get(inst.ClassType).Struct

	for _, field := range decl.Fields {
		classInfo.Members = append(classInfo.Members, types.StructMember{
			Name:         field.Name,
			Type:         SubstituteType(r.types, ast.TypeExpr{Resolved: field.Type, IsResolved: true}, bindings),
			PointerDepth: 0,
			IsReference:  field.IsReference,
		})
	}
	r.types.ComputeLayout(inst.ClassType)
	inst.Phase = PhaseLayout
}

// EnsureMemberDefinition transitions the named member function to the
// Definition phase, substituting its body — triggered by a call to that
// member. A repeated request for the same member substitutes it again
// and returns an equivalent node.
func (r *Registry) EnsureMemberDefinition(inst *Instantiation, arena *ast.Arena, member intern.Handle) (*ast.FunctionDeclarationNode, bool) {
	if inst.Phase < PhaseLayout {
		r.EnsureLayout(inst, arena)
	}
	decl := inst.Definition.ClassDecl.Underlying
	bindings := r.rebind(inst)
	for _, m := range decl.Methods {
		if m.Name != member {
			continue
		}
		if inst.pendingMembers == nil {
			inst.pendingMembers = make(map[intern.Handle]bool)
		}
		substituted := &ast.FunctionDeclarationNode{
			Name:        m.Name,
			ReturnType:  SubstituteType(r.types, ast.TypeExpr{Resolved: m.ReturnType, IsResolved: true}, bindings),
			OwnerStruct: inst.ClassType,
			IsConst:     m.IsConst,
			IsStatic:    m.IsStatic,
		}
		if m.Body != nil {
			body := make([]ast.Stmt, 0, len(m.Body.Statements))
			for _, s := range m.Body.Statements {
				body = append(body, substituteStmt(arena, r.interner, r.types, s, bindings))
			}
			substituted.Body = ast.NewBlockStatement(arena, m.Pos(), body)
		}
		inst.pendingMembers[member] = true
		inst.Phase = PhaseDefinition
		return substituted, true
	}
	return nil, false
}

func substituteStmt(arena *ast.Arena, in *intern.Table, tys *types.Registry, s ast.Stmt, bindings Bindings) ast.Stmt {
	switch n := s.(type) {
	case *ast.ReturnStatement:
		return ast.NewReturnStatement(arena, n.Pos(), SubstituteExpr(arena, in, tys, n.Value, bindings))
	case *ast.ExpressionStatement:
		return ast.NewExpressionStatement(arena, n.Pos(), SubstituteExpr(arena, in, tys, n.Expr, bindings))
	default:
		return s
	}
}

// rebind reconstructs the Bindings map for an already-instantiated
// class from its stored positional Args (needed because Bindings
// itself is not persisted on Instantiation — only the canonical,
// order-stable Args slice is, to keep the cache key minimal).
func (r *Registry) rebind(inst *Instantiation) Bindings {
	bindings := make(Bindings)
	params := inst.Definition.params()
	for i, p := range params {
		if i < len(inst.Args) {
			bindings[p.Name] = inst.Args[i]
		}
	}
	return bindings
}

// TryInstantiateTemplate performs function-template argument deduction
// from call-site argument types and instantiates the result.
func (r *Registry) TryInstantiateTemplate(name intern.Handle, patterns []*Pattern, callArgs []CallArg) (*Instantiation, bool) {
	def, ok := r.defs[name]
	if !ok || def.Kind != KindFunction {
		return nil, false
	}
	bindings, ok := Deduce(r.types, patterns, callArgs)
	if !ok {
		return nil, false
	}
	if !fillDefaults(r.types, r.interner, def.Params, bindings) {
		return nil, false
	}
	return r.instantiateFunction(def, bindings)
}

// TryInstantiateTemplateExplicit instantiates a function template with
// fully explicit (non-deduced) arguments.
func (r *Registry) TryInstantiateTemplateExplicit(name intern.Handle, explicitArgs []Arg) (*Instantiation, bool) {
	def, ok := r.defs[name]
	if !ok || def.Kind != KindFunction {
		return nil, false
	}
	bindings := make(Bindings)
	for i, p := range def.Params {
		if i < len(explicitArgs) {
			bindings[p.Name] = explicitArgs[i]
		}
	}
	if !fillDefaults(r.types, r.interner, def.Params, bindings) {
		return nil, false
	}
	return r.instantiateFunction(def, bindings)
}

func (r *Registry) instantiateFunction(def *Definition, bindings Bindings) (*Instantiation, bool) {
	finalArgs := orderedArgs(def.Params, bindings)
	if inst, ok := r.cacheLookup(def.Name, finalArgs); ok {
		return inst, true
	}
	canonName := r.interner.Intern(CanonicalInstantiationName(r.interner, def.Name, finalArgs, r.types))

	underlying := def.FunctionDecl.Underlying
	fn := &ast.FunctionDeclarationNode{
		Name:       canonName,
		ReturnType: SubstituteType(r.types, ast.TypeExpr{Resolved: underlying.ReturnType, IsResolved: true}, bindings),
	}
	for _, p := range underlying.Params {
		fn.Params = append(fn.Params, &ast.VariableDeclarationNode{
			Name: p.Name,
			Type: SubstituteType(r.types, ast.TypeExpr{Resolved: p.Type, IsResolved: true}, bindings),
		})
	}

	inst := &Instantiation{
		Definition: def,
		Args:       finalArgs,
		Name:       canonName,
		Phase:      PhaseDefinition,
		Node:       fn,
	}
	r.cacheStore(inst)
	return inst, true
}

// TryInstantiateVariableTemplate instantiates a variable template.
func (r *Registry) TryInstantiateVariableTemplate(name intern.Handle, args []Arg) (*Instantiation, bool) {
	def, ok := r.defs[name]
	if !ok || def.Kind != KindVariable {
		return nil, false
	}
	bindings := make(Bindings)
	for i, p := range def.Params {
		if i < len(args) {
			bindings[p.Name] = args[i]
		}
	}
	if !fillDefaults(r.types, r.interner, def.Params, bindings) {
		return nil, false
	}
	if inst, ok := r.cacheLookup(name, orderedArgs(def.Params, bindings)); ok {
		return inst, true
	}
	finalArgs := orderedArgs(def.Params, bindings)
	canonName := r.interner.Intern(CanonicalInstantiationName(r.interner, name, finalArgs, r.types))
	underlying := def.VariableDecl.Underlying
	v := &ast.VariableDeclarationNode{
		Name: canonName,
		Type: SubstituteType(r.types, ast.TypeExpr{Resolved: underlying.Type, IsResolved: true}, bindings),
	}
	inst := &Instantiation{Definition: def, Args: finalArgs, Name: canonName, Phase: PhaseDefinition, Node: v}
	r.cacheStore(inst)
	return inst, true
}
