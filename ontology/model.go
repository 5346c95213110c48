// Package ontology holds the read-only entity graph a generation run works on,
// and the queries every document is rendered from: lookup, content
// classification, hierarchy placement and reverse references.
package ontology

import (
	"sort"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
)

// EntityKind distinguishes the entities held by an Ontology.
type EntityKind int

const (
	EntityInterface EntityKind = iota
	EntitySchema
)

func (k EntityKind) String() string {
	switch k {
	case EntityInterface:
		return "interface"
	case EntitySchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Entity is any node in the ontology.
type Entity interface {
	ID() dtmi.ID
	Kind() EntityKind
}

// Localized maps a language tag to text.
type Localized map[string]string

// PreferredLanguage is chosen first when a localized value has several entries.
const PreferredLanguage = "en"

// Preferred returns the English text if present, otherwise the text of the
// lexicographically smallest language tag. Empty when l is empty.
func (l Localized) Preferred() string {
	if len(l) == 0 {
		return ""
	}
	if v, ok := l[PreferredLanguage]; ok {
		return v
	}
	tags := make([]string, 0, len(l))
	for tag := range l {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return l[tags[0]]
}

// Interface is a typed class of digital twin.
type Interface struct {
	id          dtmi.ID
	DisplayName Localized
	Description Localized
	Comment     string

	// Extends lists parents in declared order. Empty means root.
	Extends []*Interface

	// Contents is the effective content set: members declared here first,
	// then members inherited through Extends in declared order.
	Contents []*Content

	// Schemas are the named complex schemas this interface declares.
	Schemas []*Schema
}

// NewInterface returns an interface with the given identifier and no content.
func NewInterface(id dtmi.ID) *Interface {
	return &Interface{id: id}
}

func (i *Interface) ID() dtmi.ID      { return i.id }
func (i *Interface) Kind() EntityKind { return EntityInterface }

// Name is the local name used for document titles and paths.
func (i *Interface) Name() string { return i.id.LocalName() }

// ContentKind tags a content member.
type ContentKind int

const (
	KindProperty ContentKind = iota
	KindRelationship
	KindTelemetry
	KindCommand
)

// ContentKinds lists every kind in document section order.
var ContentKinds = []ContentKind{KindRelationship, KindProperty, KindTelemetry, KindCommand}

func (k ContentKind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindRelationship:
		return "relationship"
	case KindTelemetry:
		return "telemetry"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Plural is the section title for a kind, e.g. "Properties".
func (k ContentKind) Plural() string {
	switch k {
	case KindProperty:
		return "Properties"
	case KindRelationship:
		return "Relationships"
	case KindTelemetry:
		return "Telemetries"
	case KindCommand:
		return "Commands"
	default:
		return "Contents"
	}
}

// Content is a property, relationship, telemetry or command. Exactly one
// payload pointer, the one matching Kind, is set.
type Content struct {
	Kind        ContentKind
	Name        string
	DisplayName Localized
	Description Localized

	// DefinedIn identifies the interface that declares the member.
	DefinedIn dtmi.ID

	Property     *Property
	Relationship *Relationship
	Telemetry    *Telemetry
	Command      *Command
}

// Property is the payload of a property member (also used for relationship properties).
type Property struct {
	Writable bool
	Schema   *Schema
}

// Relationship is the payload of a relationship member.
type Relationship struct {
	// Target is nil for untyped relationships.
	Target *dtmi.ID
	// MinMultiplicity nil means 0.
	MinMultiplicity *int
	// MaxMultiplicity nil means unbounded.
	MaxMultiplicity *int
	Writable        bool
	Properties      []*Content
}

// Telemetry is the payload of a telemetry member.
type Telemetry struct {
	Schema *Schema
}

// Command is the payload of a command member. Either side may be nil.
type Command struct {
	Request  *CommandPayload
	Response *CommandPayload
}

// CommandPayload describes a command request or response.
type CommandPayload struct {
	Name        string
	DisplayName Localized
	Description Localized
	Schema      *Schema
}

// NewProperty builds a property member.
func NewProperty(name string, schema *Schema, writable bool) *Content {
	return &Content{Kind: KindProperty, Name: name, Property: &Property{Writable: writable, Schema: schema}}
}

// NewRelationship builds a relationship member. target may be nil.
func NewRelationship(name string, target *dtmi.ID) *Content {
	return &Content{Kind: KindRelationship, Name: name, Relationship: &Relationship{Target: target}}
}

// NewTelemetry builds a telemetry member.
func NewTelemetry(name string, schema *Schema) *Content {
	return &Content{Kind: KindTelemetry, Name: name, Telemetry: &Telemetry{Schema: schema}}
}

// NewCommand builds a command member. Either payload may be nil.
func NewCommand(name string, request, response *CommandPayload) *Content {
	return &Content{Kind: KindCommand, Name: name, Command: &Command{Request: request, Response: response}}
}

// Schema returns the value schema of a property or telemetry, nil otherwise.
func (c *Content) Schema() *Schema {
	switch c.Kind {
	case KindProperty:
		if c.Property != nil {
			return c.Property.Schema
		}
	case KindTelemetry:
		if c.Telemetry != nil {
			return c.Telemetry.Schema
		}
	}
	return nil
}

// Writable reports the writability flag of properties and relationships.
func (c *Content) Writable() bool {
	switch c.Kind {
	case KindProperty:
		return c.Property != nil && c.Property.Writable
	case KindRelationship:
		return c.Relationship != nil && c.Relationship.Writable
	}
	return false
}

// DirectOn reports whether the member is declared by iface.
func (c *Content) DirectOn(iface *Interface) bool {
	return c.DefinedIn == iface.ID()
}
