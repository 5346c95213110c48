package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/ontology"
)

// Column sets are part of the document contract. Changing order or count
// breaks consumers of the generated documents.
var (
	relationshipColumns = []string{"Name", "Display name", "Description", "Multiplicity", "Target", "Properties", "Writable"}
	propertyColumns     = []string{"Name", "Display name", "Description", "Schema", "Writable"}
	telemetryColumns    = []string{"Name", "Display name", "Description", "Schema"}
	commandColumns      = []string{"Name", "Display name", "Description", "Request schema", "Response schema"}
)

// Renderer assembles the document of one interface.
type Renderer struct {
	ont  *ontology.Ontology
	hier *ontology.Hierarchy
}

// NewRenderer returns a renderer placing documents with hier.
func NewRenderer(ont *ontology.Ontology, hier *ontology.Hierarchy) *Renderer {
	return &Renderer{ont: ont, hier: hier}
}

// page carries the state of one document while it is rendered.
type page struct {
	r     *Renderer
	iface *ontology.Interface
	path  string
	b     strings.Builder
}

// Render returns the markdown document of iface.
func (r *Renderer) Render(iface *ontology.Interface) (string, error) {
	docPath, err := r.hier.DocPath(iface)
	if err != nil {
		return "", err
	}
	p := &page{r: r, iface: iface, path: docPath}

	steps := []func() error{
		p.breadcrumb,
		p.header,
		p.children,
		p.relationships,
		p.properties,
		p.telemetries,
		p.commands,
		p.targetOf,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return "", errors.Wrapf(err, "render %s", iface.ID())
		}
	}
	return p.b.String(), nil
}

// linkTo renders a link from this page to another interface's document.
func (p *page) linkTo(target *ontology.Interface, text string) (string, error) {
	to, err := p.r.hier.DocPath(target)
	if err != nil {
		return "", err
	}
	return link(text, p.path, to), nil
}

func (p *page) linkToID(id dtmi.ID) (string, error) {
	target, err := p.r.ont.LookupInterface(id)
	if err != nil {
		return "", err
	}
	return p.linkTo(target, target.Name())
}

func (p *page) line(s string) {
	p.b.WriteString(s)
	p.b.WriteString("\n")
}

func (p *page) blank() {
	p.b.WriteString("\n")
}

func (p *page) breadcrumb() error {
	chain, err := p.r.hier.AncestorChain(p.iface)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return nil
	}
	crumbs := make([]string, 0, len(chain)+1)
	for _, a := range chain {
		l, err := p.linkTo(a, a.Name())
		if err != nil {
			return err
		}
		crumbs = append(crumbs, l)
	}
	crumbs = append(crumbs, p.iface.Name())
	p.line(strings.Join(crumbs, " > "))
	p.blank()
	return nil
}

func (p *page) header() error {
	p.line("# " + p.iface.Name())
	p.blank()
	if desc := p.iface.Description.Preferred(); desc != "" {
		p.line(desc)
		p.blank()
	}
	if name := p.iface.DisplayName.Preferred(); name != "" {
		p.line("**Display name:** " + name)
		p.blank()
	}
	p.line("**DTMI:** " + p.iface.ID().String())
	p.blank()
	p.line("---")
	return nil
}

func (p *page) section(title string) {
	p.blank()
	p.line("## " + title)
	p.blank()
}

func (p *page) children() error {
	kids := p.r.ont.ChildrenOf(p.iface)
	if len(kids) == 0 {
		return nil
	}
	p.section("Child interfaces")
	for _, child := range kids {
		l, err := p.linkTo(child, child.Name())
		if err != nil {
			return err
		}
		p.line("- " + l)
	}
	return nil
}

// contentSection renders the direct table and the inherited list of one kind.
func (p *page) contentSection(kind ontology.ContentKind, columns []string, row func(*ontology.Content) ([]string, error)) error {
	direct := ontology.Direct(p.iface, kind)
	groups := ontology.InheritedGroups(p.iface, kind)
	if len(direct) == 0 && len(groups) == 0 {
		return nil
	}
	p.section(kind.Plural())

	if len(direct) > 0 {
		rows := make([][]string, 0, len(direct))
		for _, c := range direct {
			cells, err := row(c)
			if err != nil {
				return errors.Wrapf(err, "%s %s", kind, c.Name)
			}
			rows = append(rows, cells)
		}
		p.table(columns, rows)
	}

	if len(groups) > 0 {
		if len(direct) > 0 {
			p.blank()
		}
		p.line("### Inherited " + kind.Plural())
		p.blank()
		for _, g := range groups {
			l, err := p.linkToID(g.DefinedIn)
			if err != nil {
				return errors.Wrapf(err, "inherited %s", kind.Plural())
			}
			p.line(fmt.Sprintf("- %s: %s", l, strings.Join(g.Names(), ", ")))
		}
	}
	return nil
}

func (p *page) table(columns []string, rows [][]string) {
	p.line("| " + strings.Join(columns, " | ") + " |")
	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	p.line("|" + strings.Join(sep, "|") + "|")
	for _, cells := range rows {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = escapeCell(c)
		}
		p.line("| " + strings.Join(escaped, " | ") + " |")
	}
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}

func (p *page) relationships() error {
	return p.contentSection(ontology.KindRelationship, relationshipColumns, func(c *ontology.Content) ([]string, error) {
		rel := c.Relationship
		if rel == nil {
			rel = &ontology.Relationship{}
		}
		target, err := p.relationshipTarget(rel)
		if err != nil {
			return nil, err
		}
		props, err := formatRelationshipProperties(rel.Properties)
		if err != nil {
			return nil, err
		}
		return []string{
			c.Name,
			c.DisplayName.Preferred(),
			c.Description.Preferred(),
			Multiplicity(rel),
			target,
			props,
			strconv.FormatBool(rel.Writable),
		}, nil
	})
}

// relationshipTarget links the target interface. The builder rejects
// unresolved targets, so a lookup failure here aborts the render.
func (p *page) relationshipTarget(rel *ontology.Relationship) (string, error) {
	if rel.Target == nil {
		return "", nil
	}
	return p.linkToID(*rel.Target)
}

// Multiplicity renders min-max with 0 and Infinity for absent bounds.
func Multiplicity(rel *ontology.Relationship) string {
	lo, hi := "0", "Infinity"
	if rel.MinMultiplicity != nil {
		lo = strconv.Itoa(*rel.MinMultiplicity)
	}
	if rel.MaxMultiplicity != nil {
		hi = strconv.Itoa(*rel.MaxMultiplicity)
	}
	return lo + "-" + hi
}

func formatRelationshipProperties(props []*ontology.Content) (string, error) {
	parts := make([]string, 0, len(props))
	for _, prop := range props {
		schema, err := FormatSchema(prop.Schema())
		if err != nil {
			return "", errors.Wrapf(err, "relationship property %s", prop.Name)
		}
		parts = append(parts, prop.Name+" ("+schema+")")
	}
	return strings.Join(parts, ", "), nil
}

func (p *page) properties() error {
	return p.contentSection(ontology.KindProperty, propertyColumns, func(c *ontology.Content) ([]string, error) {
		schema, err := FormatSchema(c.Schema())
		if err != nil {
			return nil, err
		}
		return []string{
			c.Name,
			c.DisplayName.Preferred(),
			c.Description.Preferred(),
			schema,
			strconv.FormatBool(c.Writable()),
		}, nil
	})
}

func (p *page) telemetries() error {
	return p.contentSection(ontology.KindTelemetry, telemetryColumns, func(c *ontology.Content) ([]string, error) {
		schema, err := FormatSchema(c.Schema())
		if err != nil {
			return nil, err
		}
		return []string{
			c.Name,
			c.DisplayName.Preferred(),
			c.Description.Preferred(),
			schema,
		}, nil
	})
}

func (p *page) commands() error {
	return p.contentSection(ontology.KindCommand, commandColumns, func(c *ontology.Content) ([]string, error) {
		var request, response string
		if cmd := c.Command; cmd != nil {
			var err error
			if request, err = formatPayload(cmd.Request); err != nil {
				return nil, errors.Wrap(err, "request")
			}
			if response, err = formatPayload(cmd.Response); err != nil {
				return nil, errors.Wrap(err, "response")
			}
		}
		return []string{
			c.Name,
			c.DisplayName.Preferred(),
			c.Description.Preferred(),
			request,
			response,
		}, nil
	})
}

func formatPayload(payload *ontology.CommandPayload) (string, error) {
	if payload == nil {
		return "", nil
	}
	return FormatSchema(payload.Schema)
}

func (p *page) targetOf() error {
	direct, inherited := p.r.ont.TargetOf(p.iface)
	if len(direct) == 0 && len(inherited) == 0 {
		return nil
	}
	p.section("Target Of")

	lists := []struct {
		title string
		refs  []ontology.Reference
	}{
		{"Direct", direct},
		{"Inherited", inherited},
	}
	first := true
	for _, list := range lists {
		if len(list.refs) == 0 {
			continue
		}
		if !first {
			p.blank()
		}
		first = false
		p.line("### " + list.title)
		p.blank()
		for _, ref := range list.refs {
			l, err := p.linkTo(ref.Source, ref.Label())
			if err != nil {
				return err
			}
			p.line("- " + l)
		}
	}
	return nil
}
