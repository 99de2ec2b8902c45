// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package decl loads module declarations from YAML stub documents.
package decl

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/internal/util"
	"github.com/wdamron/gradual/types"
)

// Classes with these names back the matching primitive or builtin container, unless the document maps
// the name to another class.
var builtinNames = []string{"object", "int", "bool", "float", "complex", "str", "bytes", "tuple", "list", "dict", "set"}

// Stubs is a loaded stub document.
type Stubs struct {
	Module  *types.Module
	Options gradual.Options
	Checks  []Check
}

// LoadFile reads and loads the stub document at path.
func LoadFile(path string) (*Stubs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading stubs")
	}
	return Load(data, path)
}

// Load decodes and loads a stub document. path is used in error messages.
func Load(data []byte, path string) (*Stubs, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "%s: parsing stubs", path)
	}
	stubs, err := Build(&doc)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return stubs, nil
}

// Build declares everything in doc in a new module. The class table of the module is frozen.
func Build(doc *Document) (*Stubs, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	l := &loader{
		doc:         doc,
		mod:         types.NewModule(doc.Module),
		classIndex:  make(map[string]int),
		structIndex: make(map[string]int),
	}
	for _, step := range []func() error{
		l.declareClasses,
		l.linearizeClasses,
		l.declareStructural,
		l.finishClassParams,
		l.declareMembers,
		l.registerBuiltins,
		l.declareExports,
		l.parseChecks,
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	l.mod.Classes.Freeze()
	return &Stubs{Module: l.mod, Options: doc.Options.Options(), Checks: l.checks}, nil
}

type loader struct {
	doc *Document
	mod *types.Module

	// classes are indexed like doc.Classes.
	classes    []*types.ClassDef
	classIndex map[string]int
	pending    []pendingParam

	// Vertices of the structural dependency graph are protocols, then records.
	structIndex map[string]int
	// group is the recursive group of the structural types being declared.
	group *types.Recursive

	checks []Check
}

// A class type-parameter whose bound or constraints are parsed once every declaration is known.
type pendingParam struct {
	class int
	tv    *types.TypeVar
	p     *parser
}

func (l *loader) declared(name string) bool {
	_, isClass := l.classIndex[name]
	_, isStruct := l.structIndex[name]
	return isClass || isStruct
}

func (l *loader) declareClasses() error {
	for i, cd := range l.doc.Classes {
		if l.declared(cd.Name) {
			return errors.Errorf("classes[%d]: %s is already declared", i, cd.Name)
		}
		var params []*types.TypeVar
		for j, src := range cd.Params {
			tv, p, err := parseTypeParamHead(src)
			if err != nil {
				return errors.Wrapf(err, "classes[%d] (%s): params[%d]", i, cd.Name, j)
			}
			for _, prev := range params {
				if prev.Name == tv.Name {
					return errors.Errorf("classes[%d] (%s): duplicate type-parameter %s", i, cd.Name, tv.Name)
				}
			}
			params = append(params, tv)
			l.pending = append(l.pending, pendingParam{class: i, tv: tv, p: p})
		}
		c := types.NewClass(cd.Name, params...)
		c.Final = cd.Final
		l.classIndex[cd.Name] = i
		l.classes = append(l.classes, c)
	}
	return nil
}

// classVars returns the type-parameters of c by name.
func classVars(c *types.ClassDef) map[string]types.Type {
	vars := make(map[string]types.Type, len(c.TypeParams)+1)
	for _, tv := range c.TypeParams {
		vars[tv.Name] = tv
	}
	return vars
}

// linearizeClasses resolves base classes and registers classes after their bases.
func (l *loader) linearizeClasses() error {
	g := util.NewGraph(len(l.classes))
	for i, cd := range l.doc.Classes {
		for _, src := range cd.Bases {
			if names := identifiers(src); len(names) > 0 {
				if j, ok := l.classIndex[names[0]]; ok {
					g.AddEdge(i, j)
				}
			}
		}
	}
	for _, comp := range g.Components() {
		if len(comp) > 1 || g.HasEdge(comp[0], comp[0]) {
			return errors.Errorf("classes: inheritance cycle between %s", l.classNames(comp))
		}
		i := comp[0]
		c, cd := l.classes[i], l.doc.Classes[i]
		vars := classVars(c)
		for j, src := range cd.Bases {
			t, err := parseType(src, l.resolve, vars)
			if err != nil {
				return errors.Wrapf(err, "classes[%d] (%s): bases[%d]", i, cd.Name, j)
			}
			inst, ok := t.(*types.Instance)
			if !ok {
				return errors.Errorf("classes[%d] (%s): base %s is not a class", i, cd.Name, types.TypeString(t))
			}
			c.Bases = append(c.Bases, inst)
		}
		if err := l.mod.Classes.Add(c); err != nil {
			return errors.Wrapf(err, "classes[%d] (%s)", i, cd.Name)
		}
	}
	return nil
}

func (l *loader) classNames(comp []int) string {
	names := make([]string, len(comp))
	for i, v := range comp {
		names[i] = l.classes[v].Name
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (l *loader) structName(v int) string {
	if n := len(l.doc.Protocols); v >= n {
		return l.doc.Records[v-n].Name
	}
	return l.doc.Protocols[v].Name
}

// declareStructural declares protocols and records in dependency order. Declarations which refer to each
// other (or to themselves) share a recursive group, and refer to each other through recursive links.
func (l *loader) declareStructural() error {
	numProtocols := len(l.doc.Protocols)
	n := numProtocols + len(l.doc.Records)
	for v := 0; v < n; v++ {
		name := l.structName(v)
		if l.declared(name) {
			return errors.Errorf("%s is already declared", name)
		}
		l.structIndex[name] = v
	}

	g := util.NewGraph(n)
	depend := func(v int, src string) {
		for _, name := range identifiers(src) {
			if w, ok := l.structIndex[name]; ok {
				g.AddEdge(v, w)
			}
		}
	}
	for v, pd := range l.doc.Protocols {
		for _, src := range pd.Params {
			depend(v, src)
		}
		for _, src := range pd.Members {
			depend(v, src)
		}
	}
	for i, rd := range l.doc.Records {
		for _, src := range rd.Bases {
			depend(numProtocols+i, src)
		}
		for _, src := range rd.Fields {
			depend(numProtocols+i, src)
		}
	}

	for _, comp := range g.Components() {
		l.group = types.NewRecursive(l.structName(comp[0]))
		for _, v := range comp {
			l.group.AddType(l.structName(v), nil)
		}
		for _, v := range comp {
			var (
				t   types.Type
				err error
			)
			if v < numProtocols {
				t, err = l.declareProtocol(v)
			} else {
				t, err = l.declareRecord(v - numProtocols)
			}
			if err != nil {
				return err
			}
			l.group.SetType(l.group.Indexes[l.structName(v)], t)
		}
	}
	l.group = nil
	return nil
}

func (l *loader) selfLink(name string) types.Type {
	return l.group.SelfLink(l.group.Indexes[name])
}

// typeParams parses complete type-parameter declarations, adding them to vars.
func (l *loader) typeParams(srcs []string, vars map[string]types.Type) ([]*types.TypeVar, error) {
	params := make([]*types.TypeVar, len(srcs))
	parsers := make([]*parser, len(srcs))
	for i, src := range srcs {
		tv, p, err := parseTypeParamHead(src)
		if err != nil {
			return nil, errors.Wrapf(err, "params[%d]", i)
		}
		if _, dup := vars[tv.Name]; dup {
			return nil, errors.Errorf("params[%d]: duplicate type-parameter %s", i, tv.Name)
		}
		params[i], parsers[i] = tv, p
		vars[tv.Name] = tv
	}
	for i, p := range parsers {
		if err := p.finishTypeParam(params[i], l.resolve, vars); err != nil {
			return nil, errors.Wrapf(err, "params[%d]", i)
		}
	}
	return params, nil
}

func (l *loader) declareProtocol(i int) (*types.Protocol, error) {
	pd := l.doc.Protocols[i]
	vars := map[string]types.Type{"Self": l.selfLink(pd.Name)}
	params, err := l.typeParams(pd.Params, vars)
	if err != nil {
		return nil, errors.Wrapf(err, "protocols[%d] (%s)", i, pd.Name)
	}
	members := make(map[string]types.Type, len(pd.Members))
	for _, name := range sortedKeys(pd.Members) {
		t, err := parseType(pd.Members[name], l.resolve, vars)
		if err != nil {
			return nil, errors.Wrapf(err, "protocols[%d] (%s): members.%s", i, pd.Name, name)
		}
		members[name] = t
	}
	p := types.NewProtocol(pd.Name, members, params...)
	l.mod.Protocols[pd.Name] = p
	return p, nil
}

func (l *loader) declareRecord(i int) (*types.Record, error) {
	rd := l.doc.Records[i]
	vars := map[string]types.Type{"Self": l.selfLink(rd.Name)}
	total := rd.Total == nil || *rd.Total
	fields := make(map[string]types.Field, len(rd.Fields))
	for _, name := range sortedKeys(rd.Fields) {
		f, err := parseField(rd.Fields[name], total, l.resolve, vars)
		if err != nil {
			return nil, errors.Wrapf(err, "records[%d] (%s): fields.%s", i, rd.Name, name)
		}
		fields[name] = f
	}
	bases := make([]*types.Record, len(rd.Bases))
	for j, src := range rd.Bases {
		if _, inGroup := l.group.Indexes[src]; inGroup {
			return nil, errors.Errorf("records[%d] (%s): base %s refers back to %s", i, rd.Name, src, rd.Name)
		}
		base, ok := l.mod.Records[src]
		if !ok {
			return nil, errors.Errorf("records[%d] (%s): base %s is not a record", i, rd.Name, src)
		}
		bases[j] = base
	}
	isSubtype := func(a, b types.Type) bool {
		return typeutil.NewChecker(l.mod.Classes, l.doc.Options.MaxDepth).IsCompatible(a, b)
	}
	r, err := types.ExtendRecord(rd.Name, bases, fields, isSubtype)
	if err != nil {
		return nil, errors.Wrapf(err, "records[%d] (%s)", i, rd.Name)
	}
	l.mod.Records[rd.Name] = r
	return r, nil
}

func (l *loader) finishClassParams() error {
	for _, pp := range l.pending {
		c := l.classes[pp.class]
		if err := pp.p.finishTypeParam(pp.tv, l.resolve, classVars(c)); err != nil {
			return errors.Wrapf(err, "classes[%d] (%s)", pp.class, c.Name)
		}
	}
	return nil
}

func (l *loader) declareMembers() error {
	for i, cd := range l.doc.Classes {
		c := l.classes[i]
		vars := classVars(c)
		args := make([]types.Type, len(c.TypeParams))
		for j, tv := range c.TypeParams {
			args[j] = tv
		}
		vars["Self"] = types.NewInstance(c, args...)
		for _, name := range sortedKeys(cd.Members) {
			t, err := parseType(cd.Members[name], l.resolve, vars)
			if err != nil {
				return errors.Wrapf(err, "classes[%d] (%s): members.%s", i, cd.Name, name)
			}
			c.Members[name] = t
		}
		for _, name := range cd.Abstract {
			if _, ok := c.Members[name]; !ok {
				return errors.Errorf("classes[%d] (%s): abstract member %s is not declared", i, cd.Name, name)
			}
			c.Abstract.Insert(name)
		}
		for _, name := range cd.Overrides {
			if _, ok := c.Members[name]; !ok {
				return errors.Errorf("classes[%d] (%s): overriding member %s is not declared", i, cd.Name, name)
			}
			c.Overrides.Insert(name)
		}
		if cd.Metaclass != "" {
			j, ok := l.classIndex[cd.Metaclass]
			if !ok {
				return errors.Errorf("classes[%d] (%s): metaclass %s is not a class", i, cd.Name, cd.Metaclass)
			}
			c.Metaclass = l.classes[j]
		}
	}
	return nil
}

func (l *loader) registerBuiltins() error {
	for _, name := range builtinNames {
		if _, mapped := l.doc.Builtins[name]; mapped {
			continue
		}
		if i, ok := l.classIndex[name]; ok {
			if err := l.mod.Classes.SetBuiltin(name, l.classes[i]); err != nil {
				return err
			}
		}
	}
	for _, name := range sortedKeys(l.doc.Builtins) {
		class := l.doc.Builtins[name]
		i, ok := l.classIndex[class]
		if !ok {
			return errors.Errorf("builtins.%s: %s is not a class", name, class)
		}
		if err := l.mod.Classes.SetBuiltin(name, l.classes[i]); err != nil {
			return errors.Wrapf(err, "builtins.%s", name)
		}
	}
	return nil
}

func (l *loader) export(name string, t types.Type) error {
	if _, dup := l.mod.Exports[name]; dup {
		return errors.Errorf("%s is exported twice", name)
	}
	l.mod.Exports[name] = t
	return nil
}

func (l *loader) declareExports() error {
	for _, name := range sortedKeys(l.doc.Functions) {
		sig, err := parseCallable(l.doc.Functions[name], l.resolve, nil)
		if err != nil {
			return errors.Wrapf(err, "functions.%s", name)
		}
		if err := l.export(name, sig); err != nil {
			return errors.Wrap(err, "functions")
		}
	}
	for _, name := range sortedKeys(l.doc.Constants) {
		t, err := parseType(l.doc.Constants[name], l.resolve, nil)
		if err != nil {
			return errors.Wrapf(err, "constants.%s", name)
		}
		if err := l.export(name, t); err != nil {
			return errors.Wrap(err, "constants")
		}
	}
	for i, od := range l.doc.Overloads {
		group := &types.OverloadGroup{Name: od.Name}
		for j, src := range od.Variants {
			sig, err := parseCallable(src, l.resolve, nil)
			if err != nil {
				return errors.Wrapf(err, "overloads[%d] (%s): variants[%d]", i, od.Name, j)
			}
			group.Variants = append(group.Variants, sig)
		}
		if od.Impl != "" {
			sig, err := parseCallable(od.Impl, l.resolve, nil)
			if err != nil {
				return errors.Wrapf(err, "overloads[%d] (%s): impl", i, od.Name)
			}
			group.Impl = sig
		}
		if err := l.export(od.Name, group); err != nil {
			return errors.Wrapf(err, "overloads[%d]", i)
		}
	}
	return nil
}

// resolve finds a named type for the parser.
func (l *loader) resolve(name string, args []types.Type, explicit bool) (types.Type, error) {
	if l.group != nil {
		if i, ok := l.group.Indexes[name]; ok {
			if explicit {
				return nil, errors.Errorf("%s cannot be applied within its own declaration", name)
			}
			return l.group.SelfLink(i), nil
		}
	}
	// Primitives and special forms shadow classes declared with the same name.
	var none *types.Module
	if t := none.ResolveName(name); t != nil {
		if explicit {
			return nil, errors.Errorf("%s does not accept type-arguments", name)
		}
		return t, nil
	}
	if i, ok := l.classIndex[name]; ok {
		c := l.classes[i]
		if len(args) > len(c.TypeParams) {
			return nil, errors.Errorf("%s expects %d type-arguments, found %d", name, len(c.TypeParams), len(args))
		}
		return types.NewInstance(c, args...), nil
	}
	if p, ok := l.mod.Protocols[name]; ok {
		if !explicit {
			return p, nil
		}
		if len(args) != len(p.TypeParams) {
			return nil, errors.Errorf("%s expects %d type-arguments, found %d", name, len(p.TypeParams), len(args))
		}
		return p.Apply(args...), nil
	}
	if r, ok := l.mod.Records[name]; ok {
		if explicit {
			return nil, errors.Errorf("%s does not accept type-arguments", name)
		}
		return r, nil
	}
	return nil, errors.Errorf("undefined type %s", name)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
