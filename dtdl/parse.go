// Package dtdl loads DTDL v2 and v3 model documents into an ontology.
//
// Loading runs in two passes. The first declares every interface and named
// schema so that documents may reference each other in any order. The second
// resolves contents and schema references, then the ontology builder links
// extends and flattens inherited contents.
package dtdl

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
	"github.com/RealEstateCore/DTDL2MD/ontology"
)

const (
	contextPrefix = "dtmi:dtdl:context;"

	// SupportedContexts constrains the DTDL language version of input documents.
	SupportedContexts = ">= 2, < 4"
)

var supported = mustConstraint(SupportedContexts)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Document is one model file's raw content.
type Document struct {
	// Source names the document in errors and logs, usually its path
	Source string
	Data   []byte
}

// Load reads files and parses them into an ontology.
func Load(files []string, log *zap.SugaredLogger) (*ontology.Ontology, error) {
	docs := make([]Document, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read model file %s", f)
		}
		docs = append(docs, Document{Source: f, Data: data})
	}
	return Parse(docs, log)
}

// Parse builds an ontology from model documents. Each document holds a single
// interface or an array of interfaces.
//
// Malformed documents fail with errors.ErrInvalidModel, references to
// undeclared interfaces or schemas with errors.ErrNotFound and extends cycles
// with errors.ErrPlacement.
func Parse(docs []Document, log *zap.SugaredLogger) (*ontology.Ontology, error) {
	if log == nil {
		log = logger.ComponentLogger("dtdl")
	}
	p := &parser{
		log:     log,
		builder: ontology.NewBuilder(),
		named:   make(map[dtmi.ID]*namedSchema),
	}

	for _, doc := range docs {
		objects, err := splitDocument(doc)
		if err != nil {
			return nil, err
		}
		for _, obj := range objects {
			if err := checkContext(obj); err != nil {
				return nil, errors.Wrapf(err, "file %s", doc.Source)
			}
			if _, err := p.declare(doc.Source, obj); err != nil {
				return nil, errors.Wrapf(err, "file %s", doc.Source)
			}
		}
		log.Debugw("declared model document", logger.FieldFile, doc.Source, logger.FieldCount, len(objects))
	}

	for _, ns := range p.namedOrder {
		if err := p.fillSchema(ns.schema, ns.raw, ns.schema.ID()); err != nil {
			return nil, errors.Wrapf(err, "file %s: schema %s", ns.source, ns.schema.ID())
		}
	}

	for _, pi := range p.pending {
		if err := p.resolveContents(pi); err != nil {
			return nil, errors.Wrapf(err, "file %s: interface %s", pi.source, pi.iface.ID())
		}
	}

	ont, err := p.builder.Build()
	if err != nil {
		return nil, err
	}
	log.Infow("loaded ontology",
		"interfaces", len(ont.Interfaces()),
		"schemas", len(p.namedOrder),
		logger.FieldCount, len(docs))
	return ont, nil
}

type object map[string]json.RawMessage

type namedSchema struct {
	schema *ontology.Schema
	raw    object
	source string
}

type pendingInterface struct {
	iface  *ontology.Interface
	raw    object
	source string
}

type parser struct {
	log        *zap.SugaredLogger
	builder    *ontology.Builder
	named      map[dtmi.ID]*namedSchema
	namedOrder []*namedSchema
	pending    []*pendingInterface
}

// splitDocument decodes a document into its top-level objects.
func splitDocument(doc Document) ([]object, error) {
	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 {
		return nil, errors.NewInvalidModelError("file %s: empty document", doc.Source)
	}
	if data[0] == '[' {
		var objects []object
		if err := json.Unmarshal(data, &objects); err != nil {
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "file %s", doc.Source)
		}
		return objects, nil
	}
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "file %s", doc.Source)
	}
	return []object{obj}, nil
}

// checkContext requires a DTDL language context within SupportedContexts.
func checkContext(obj object) error {
	raw, ok := obj["@context"]
	if !ok {
		return errors.NewInvalidModelError("missing @context")
	}
	contexts, err := stringOrList(raw)
	if err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "@context")
	}
	for _, c := range contexts {
		if !strings.HasPrefix(c, contextPrefix) {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(c, contextPrefix))
		if err != nil {
			return errors.NewInvalidModelError("@context %s: bad version", c)
		}
		if !supported.Check(v) {
			return errors.WithHintf(
				errors.NewInvalidModelError("@context %s is not supported", c),
				"supported DTDL versions: %s", SupportedContexts)
		}
		return nil
	}
	return errors.NewInvalidModelError("@context %v names no DTDL context", contexts)
}

// declare registers an interface, its inline parents and its named schemas.
func (p *parser) declare(source string, obj object) (dtmi.ID, error) {
	types, err := typesOf(obj)
	if err != nil {
		return dtmi.ID{}, err
	}
	if !contains(types, "Interface") {
		return dtmi.ID{}, errors.NewInvalidModelError("@type %v is not an Interface", types)
	}
	id, err := idOf(obj)
	if err != nil {
		return dtmi.ID{}, err
	}

	iface := ontology.NewInterface(id)
	if iface.DisplayName, err = localized(obj["displayName"]); err != nil {
		return id, errors.Wrapf(err, "interface %s: displayName", id)
	}
	if iface.Description, err = localized(obj["description"]); err != nil {
		return id, errors.Wrapf(err, "interface %s: description", id)
	}
	if raw, ok := obj["comment"]; ok {
		if err := json.Unmarshal(raw, &iface.Comment); err != nil {
			return id, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "interface %s: comment", id)
		}
	}

	extends, err := p.declareExtends(source, id, obj["extends"])
	if err != nil {
		return id, err
	}

	if raw, ok := obj["schemas"]; ok {
		var schemas []object
		if err := json.Unmarshal(raw, &schemas); err != nil {
			return id, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "interface %s: schemas", id)
		}
		for _, s := range schemas {
			schema, err := p.declareSchema(source, s)
			if err != nil {
				return id, errors.Wrapf(err, "interface %s", id)
			}
			iface.Schemas = append(iface.Schemas, schema)
		}
	}

	if err := p.builder.AddInterface(iface, extends...); err != nil {
		return id, err
	}
	p.pending = append(p.pending, &pendingInterface{iface: iface, raw: obj, source: source})
	return id, nil
}

// declareExtends accepts a string, an inline interface or an array of either.
func (p *parser) declareExtends(source string, owner dtmi.ID, raw json.RawMessage) ([]dtmi.ID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "interface %s: extends", owner)
		}
	} else {
		items = []json.RawMessage{raw}
	}

	ids := make([]dtmi.ID, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			id, err := dtmi.Parse(s)
			if err != nil {
				return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidModel), "interface %s: extends", owner)
			}
			ids = append(ids, id)
			continue
		}
		var inline object
		if err := json.Unmarshal(item, &inline); err != nil {
			return nil, errors.NewInvalidModelError("interface %s: extends must name or define an interface", owner)
		}
		id, err := p.declare(source, inline)
		if err != nil {
			return nil, errors.Wrapf(err, "interface %s: inline extends", owner)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// declareSchema registers an empty named schema to be filled by the second pass.
func (p *parser) declareSchema(source string, obj object) (*ontology.Schema, error) {
	id, err := idOf(obj)
	if err != nil {
		return nil, errors.Wrap(err, "named schema")
	}
	t, err := schemaTypeOf(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", id)
	}
	schema := ontology.NewSchema(id, t)
	if err := p.builder.AddSchema(schema); err != nil {
		return nil, err
	}
	ns := &namedSchema{schema: schema, raw: obj, source: source}
	p.named[id] = ns
	p.namedOrder = append(p.namedOrder, ns)
	return schema, nil
}

// resolveContents parses the declared members of an interface.
func (p *parser) resolveContents(pi *pendingInterface) error {
	raw, ok := pi.raw["contents"]
	if !ok {
		return nil
	}
	var contents []object
	if err := json.Unmarshal(raw, &contents); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "contents")
	}

	owner := pi.iface.ID()
	seen := make(map[string]bool, len(contents))
	for _, obj := range contents {
		c, err := p.content(owner, obj)
		if err != nil {
			return err
		}
		if c == nil {
			continue
		}
		if seen[c.Name] {
			return errors.NewInvalidModelError("duplicate content name %s", c.Name)
		}
		seen[c.Name] = true
		pi.iface.Contents = append(pi.iface.Contents, c)
	}
	return nil
}

// contentKinds maps content @type values to kinds. Other @type values on a
// content are semantic types and are ignored.
var contentKinds = map[string]ontology.ContentKind{
	"Property":     ontology.KindProperty,
	"Relationship": ontology.KindRelationship,
	"Telemetry":    ontology.KindTelemetry,
	"Command":      ontology.KindCommand,
}

// content parses one member. Components yield nil.
func (p *parser) content(owner dtmi.ID, obj object) (*ontology.Content, error) {
	name, err := stringField(obj, "name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.NewInvalidModelError("content without name")
	}
	types, err := typesOf(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "content %s", name)
	}
	if contains(types, "Component") {
		p.log.Debugw("skipping component", logger.FieldInterface, owner.String(), "name", name)
		return nil, nil
	}

	kind, ok := ontology.ContentKind(0), false
	for _, t := range types {
		if kind, ok = contentKinds[t]; ok {
			break
		}
	}
	if !ok {
		return nil, errors.NewInvalidModelError("content %s: unknown @type %v", name, types)
	}

	var c *ontology.Content
	switch kind {
	case ontology.KindProperty:
		c, err = p.property(owner, name, obj, name)
	case ontology.KindTelemetry:
		var schema *ontology.Schema
		schema, err = p.schemaOf(obj, owner, name)
		c = ontology.NewTelemetry(name, schema)
	case ontology.KindRelationship:
		c, err = p.relationship(owner, name, obj)
	case ontology.KindCommand:
		c, err = p.command(owner, name, obj)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", kind, name)
	}

	if c.DisplayName, err = localized(obj["displayName"]); err != nil {
		return nil, errors.Wrapf(err, "%s %s: displayName", kind, name)
	}
	if c.Description, err = localized(obj["description"]); err != nil {
		return nil, errors.Wrapf(err, "%s %s: description", kind, name)
	}
	return c, nil
}

func (p *parser) property(owner dtmi.ID, name string, obj object, segments ...string) (*ontology.Content, error) {
	schema, err := p.schemaOf(obj, owner, segments...)
	if err != nil {
		return nil, err
	}
	writable, err := boolField(obj, "writable")
	if err != nil {
		return nil, err
	}
	return ontology.NewProperty(name, schema, writable), nil
}

func (p *parser) relationship(owner dtmi.ID, name string, obj object) (*ontology.Content, error) {
	var target *dtmi.ID
	if s, err := stringField(obj, "target"); err != nil {
		return nil, err
	} else if s != "" {
		id, err := dtmi.Parse(s)
		if err != nil {
			return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "target")
		}
		target = &id
	}

	c := ontology.NewRelationship(name, target)
	rel := c.Relationship

	var err error
	if rel.MinMultiplicity, err = intField(obj, "minMultiplicity"); err != nil {
		return nil, err
	}
	if rel.MaxMultiplicity, err = intField(obj, "maxMultiplicity"); err != nil {
		return nil, err
	}
	if rel.Writable, err = boolField(obj, "writable"); err != nil {
		return nil, err
	}

	if raw, ok := obj["properties"]; ok {
		var props []object
		if err := json.Unmarshal(raw, &props); err != nil {
			return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "properties")
		}
		for _, po := range props {
			propName, err := stringField(po, "name")
			if err != nil {
				return nil, err
			}
			if propName == "" {
				return nil, errors.NewInvalidModelError("relationship property without name")
			}
			prop, err := p.property(owner, propName, po, name, propName)
			if err != nil {
				return nil, errors.Wrapf(err, "property %s", propName)
			}
			if prop.DisplayName, err = localized(po["displayName"]); err != nil {
				return nil, err
			}
			if prop.Description, err = localized(po["description"]); err != nil {
				return nil, err
			}
			rel.Properties = append(rel.Properties, prop)
		}
	}
	return c, nil
}

func (p *parser) command(owner dtmi.ID, name string, obj object) (*ontology.Content, error) {
	payload := func(field string) (*ontology.CommandPayload, error) {
		raw, ok := obj[field]
		if !ok {
			return nil, nil
		}
		var po object
		if err := json.Unmarshal(raw, &po); err != nil {
			return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), field)
		}
		payloadName, err := stringField(po, "name")
		if err != nil {
			return nil, err
		}
		schema, err := p.schemaOf(po, owner, name, field)
		if err != nil {
			return nil, errors.Wrap(err, field)
		}
		cp := &ontology.CommandPayload{Name: payloadName, Schema: schema}
		if cp.DisplayName, err = localized(po["displayName"]); err != nil {
			return nil, err
		}
		if cp.Description, err = localized(po["description"]); err != nil {
			return nil, err
		}
		return cp, nil
	}

	request, err := payload("request")
	if err != nil {
		return nil, err
	}
	response, err := payload("response")
	if err != nil {
		return nil, err
	}
	return ontology.NewCommand(name, request, response), nil
}

// schemaOf resolves the "schema" field of obj. Absent schemas yield nil.
func (p *parser) schemaOf(obj object, owner dtmi.ID, segments ...string) (*ontology.Schema, error) {
	raw, ok := obj["schema"]
	if !ok {
		return nil, nil
	}
	return p.resolveSchema(raw, owner, segments...)
}

// resolveSchema turns a primitive name, a schema reference or an inline
// schema into a Schema. Inline schemas without @id are named after their
// position under owner.
func (p *parser) resolveSchema(raw json.RawMessage, owner dtmi.ID, segments ...string) (*ontology.Schema, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if s := ontology.NewPrimitive(name); s != nil {
			return s, nil
		}
		id, err := dtmi.Parse(name)
		if err != nil {
			return nil, errors.NewInvalidModelError("schema %q is neither a primitive nor a dtmi", name)
		}
		ns, ok := p.named[id]
		if !ok {
			return nil, errors.Wrap(errors.NewNotFoundError(id.String()), "schema reference")
		}
		return ns.schema, nil
	}

	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errors.NewInvalidModelError("schema must be a string or an object")
	}
	id := dtmi.Synthetic(owner, segments...)
	if _, ok := obj["@id"]; ok {
		declared, err := idOf(obj)
		if err != nil {
			return nil, err
		}
		id = declared
	}
	t, err := schemaTypeOf(obj)
	if err != nil {
		return nil, err
	}
	schema := ontology.NewSchema(id, t)
	if err := p.fillSchema(schema, obj, id); err != nil {
		return nil, err
	}
	return schema, nil
}

var schemaTypes = map[string]ontology.SchemaType{
	"Array":  ontology.SchemaArray,
	"Map":    ontology.SchemaMap,
	"Enum":   ontology.SchemaEnum,
	"Object": ontology.SchemaObject,
}

func schemaTypeOf(obj object) (ontology.SchemaType, error) {
	types, err := typesOf(obj)
	if err != nil {
		return 0, err
	}
	for _, t := range types {
		if st, ok := schemaTypes[t]; ok {
			return st, nil
		}
	}
	return 0, errors.NewInvalidModelError("unknown schema @type %v", types)
}

// fillSchema populates the variant fields of a complex schema. owner names
// nested inline schemas.
func (p *parser) fillSchema(s *ontology.Schema, obj object, owner dtmi.ID) error {
	var err error
	if s.DisplayName, err = localized(obj["displayName"]); err != nil {
		return errors.Wrap(err, "displayName")
	}
	if s.Description, err = localized(obj["description"]); err != nil {
		return errors.Wrap(err, "description")
	}

	switch s.Type {
	case ontology.SchemaArray:
		raw, ok := obj["elementSchema"]
		if !ok {
			return errors.NewInvalidModelError("array %s without elementSchema", s.ID())
		}
		if s.Element, err = p.resolveSchema(raw, owner, "elementSchema"); err != nil {
			return errors.Wrap(err, "elementSchema")
		}

	case ontology.SchemaMap:
		if s.MapKey, err = p.field(obj, "mapKey", owner); err != nil {
			return err
		}
		if s.MapValue, err = p.field(obj, "mapValue", owner); err != nil {
			return err
		}

	case ontology.SchemaEnum:
		if s.ValueSchema, err = stringField(obj, "valueSchema"); err != nil {
			return err
		}
		var values []object
		if raw, ok := obj["enumValues"]; ok {
			if err := json.Unmarshal(raw, &values); err != nil {
				return errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "enumValues")
			}
		}
		for _, v := range values {
			name, err := stringField(v, "name")
			if err != nil {
				return err
			}
			ev := ontology.EnumValue{Name: name, Value: scalar(v["enumValue"])}
			if ev.DisplayName, err = localized(v["displayName"]); err != nil {
				return err
			}
			s.EnumValues = append(s.EnumValues, ev)
		}

	case ontology.SchemaObject:
		var fields []object
		if raw, ok := obj["fields"]; ok {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "fields")
			}
		}
		for _, fo := range fields {
			f, err := p.schemaField(fo, owner, "fields")
			if err != nil {
				return err
			}
			s.Fields = append(s.Fields, f)
		}
	}
	return nil
}

// field parses the named map key or value slot.
func (p *parser) field(obj object, key string, owner dtmi.ID) (*ontology.SchemaField, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, errors.NewInvalidModelError("map without %s", key)
	}
	var fo object
	if err := json.Unmarshal(raw, &fo); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), key)
	}
	return p.schemaField(fo, owner, key)
}

func (p *parser) schemaField(fo object, owner dtmi.ID, segment string) (*ontology.SchemaField, error) {
	name, err := stringField(fo, "name")
	if err != nil {
		return nil, err
	}
	f := &ontology.SchemaField{Name: name}
	if f.DisplayName, err = localized(fo["displayName"]); err != nil {
		return nil, err
	}
	segments := []string{segment}
	if segment == "fields" {
		segments = append(segments, name)
	}
	if f.Schema, err = p.schemaOf(fo, owner, segments...); err != nil {
		return nil, errors.Wrapf(err, "%s %s", segment, name)
	}
	if f.Schema == nil {
		return nil, errors.NewInvalidModelError("%s %s without schema", segment, name)
	}
	return f, nil
}

func idOf(obj object) (dtmi.ID, error) {
	s, err := stringField(obj, "@id")
	if err != nil {
		return dtmi.ID{}, err
	}
	if s == "" {
		return dtmi.ID{}, errors.NewInvalidModelError("missing @id")
	}
	id, err := dtmi.Parse(s)
	if err != nil {
		return dtmi.ID{}, errors.Mark(err, errors.ErrInvalidModel)
	}
	return id, nil
}

func typesOf(obj object) ([]string, error) {
	raw, ok := obj["@type"]
	if !ok {
		return nil, errors.NewInvalidModelError("missing @type")
	}
	types, err := stringOrList(raw)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidModel), "@type")
	}
	return types, nil
}

// stringOrList decodes a JSON string or an array of strings. Non-string
// array members such as inline context objects are skipped.
func stringOrList(raw json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.New("expected a string or an array")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// localized decodes a plain string, taken to be English, or a language map.
func localized(raw json.RawMessage) (ontology.Localized, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ontology.Localized{ontology.PreferredLanguage: s}, nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.NewInvalidModelError("expected a string or a language map")
	}
	return ontology.Localized(m), nil
}

func stringField(obj object, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.NewInvalidModelError("%s must be a string", key)
	}
	return s, nil
}

func boolField(obj object, key string) (bool, error) {
	raw, ok := obj[key]
	if !ok {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, errors.NewInvalidModelError("%s must be a boolean", key)
	}
	return b, nil
}

func intField(obj object, key string) (*int, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, errors.NewInvalidModelError("%s must be an integer", key)
	}
	return &n, nil
}

// scalar renders a string or number value as text.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
