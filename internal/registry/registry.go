package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// MaterialClass selects the storage strategy of a parent's material collection.
type MaterialClass string

const (
	ClassDirect      MaterialClass = "material"
	ClassQuizElement MaterialClass = "quizElement"
	ClassSubmission  MaterialClass = "submission"
)

// MaterialBinding describes the material collection a parent type owns.
type MaterialBinding struct {
	Class      MaterialClass
	ParentKind materials.ParentKind
	DataKey    string
	ListKey    string
	// Contributions lets enrolled participants add materials and manage their own.
	Contributions bool
}

// Param is one named constructor parameter, in declaration order.
type Param struct {
	Name     string
	Required bool
	Default  any
}

// Builder is the static construction contract of a type.
type Builder struct {
	Params []Param
	New    func(args Args) (entity.Entity, error)
}

// TypeInfo is everything the generic layers need to know about one type name.
type TypeInfo struct {
	Name     string
	Plural   string
	DataKey  string
	Model    entities.Model
	Builder  *Builder
	Material *MaterialBinding
}

// ReferenceSpec resolves data[Field] as the external id of a Type entity and
// stores the entity under Rename (or Field when empty).
type ReferenceSpec struct {
	Field  string
	Type   string
	Rename string
}

// Target is the key the resolved entity is stored under.
func (r ReferenceSpec) Target() string {
	if r.Rename != "" {
		return r.Rename
	}
	return r.Field
}

// ChildRoute mounts generic CRUD for Child entities under a Parent entity.
type ChildRoute struct {
	Parent       string
	Child        string
	ParentField  string
	ParentColumn string
	Refs         []ReferenceSpec
}

type Registry struct {
	log     *logger.Logger
	types   map[string]*TypeInfo
	aliases map[string]string
	routes  []ChildRoute
}

func New(log *logger.Logger) *Registry {
	return &Registry{
		log:     log.With("component", "TypeRegistry"),
		types:   map[string]*TypeInfo{},
		aliases: map[string]string{},
	}
}

// Register adds a type. Registration happens at startup; duplicates panic.
func (r *Registry) Register(info *TypeInfo) {
	if info == nil || strings.TrimSpace(info.Name) == "" {
		panic("registry: type info without a name")
	}
	if _, exists := r.types[info.Name]; exists {
		panic(fmt.Sprintf("registry: type %q registered twice", info.Name))
	}
	if info.Model == nil {
		panic(fmt.Sprintf("registry: type %q has no model", info.Name))
	}
	if info.Plural == "" {
		info.Plural = info.Name + "s"
	}
	if info.DataKey == "" {
		info.DataKey = info.Name
	}
	r.types[info.Name] = info
}

// Alias makes a route section resolve to a registered type name.
func (r *Registry) Alias(alias, name string) {
	if _, ok := r.types[name]; !ok {
		panic(fmt.Sprintf("registry: alias %q targets unknown type %q", alias, name))
	}
	r.aliases[alias] = name
}

func (r *Registry) AddRoute(route ChildRoute) {
	for _, name := range []string{route.Parent, route.Child} {
		if _, ok := r.types[name]; !ok {
			panic(fmt.Sprintf("registry: route references unknown type %q", name))
		}
	}
	for _, ref := range route.Refs {
		if _, ok := r.types[ref.Type]; !ok {
			panic(fmt.Sprintf("registry: reference %q targets unknown type %q", ref.Field, ref.Type))
		}
	}
	r.routes = append(r.routes, route)
}

// Lookup resolves a type name or alias. Unknown names are a configuration
// error and are logged.
func (r *Registry) Lookup(name string) (*TypeInfo, error) {
	key := strings.TrimSpace(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	info, ok := r.types[key]
	if !ok {
		r.log.Error("Unknown type requested", "type", name)
		return nil, apierr.UnknownType("registry.lookup", name)
	}
	return info, nil
}

// MaterialParent resolves a section to a type that owns materials.
func (r *Registry) MaterialParent(section string) (*TypeInfo, error) {
	info, err := r.Lookup(section)
	if err != nil {
		return nil, err
	}
	if info.Material == nil {
		r.log.Error("Type has no material collection", "type", info.Name)
		return nil, apierr.UnknownType("registry.material_parent", section)
	}
	return info, nil
}

func (r *Registry) Route(parent, child string) (*ChildRoute, error) {
	for i := range r.routes {
		if r.routes[i].Parent == parent && r.routes[i].Child == child {
			return &r.routes[i], nil
		}
	}
	r.log.Error("Unknown child route requested", "parent", parent, "child", child)
	return nil, apierr.UnknownType("registry.route", parent+"/"+child)
}

func (r *Registry) Routes() []ChildRoute {
	out := make([]ChildRoute, len(r.routes))
	copy(out, r.routes)
	return out
}

// Names returns every registered type name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Section is the route segment of a type: its alias when one exists, else its name.
func (r *Registry) Section(name string) string {
	best := ""
	for alias, target := range r.aliases {
		if target == name && (best == "" || alias < best) {
			best = alias
		}
	}
	if best != "" {
		return best
	}
	return name
}

// MaterialSections lists the route segments of every type that owns materials, sorted.
func (r *Registry) MaterialSections() []string {
	var out []string
	for _, name := range r.Names() {
		if r.types[name].Material != nil {
			out = append(out, r.Section(name))
		}
	}
	sort.Strings(out)
	return out
}
