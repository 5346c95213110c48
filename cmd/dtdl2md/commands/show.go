package commands

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/display"
	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/markdown"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/RealEstateCore/DTDL2MD/progress"
)

// ShowCmd represents the show command
var ShowCmd = &cobra.Command{
	Use:   "show <dtmi>",
	Short: "Show the resolved view of one interface",
	Long: `Show how dtdl2md resolves one interface: its placement chain, document
path, children, direct and inherited contents, and the relationships that
target it.

Examples:
  dtdl2md show "dtmi:org:example:Building;1"
  dtdl2md show "dtmi:org:example:Building;1" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	addInputFlags(ShowCmd.Flags())
	ShowCmd.Flags().String("format", "yaml", "Output format: yaml, json, toml")
	ShowCmd.Flags().Int("max-depth", 0, "Maximum inheritance depth (default: 256)")
}

// interfaceView is the resolved view of an interface.
type interfaceView struct {
	ID          string                  `json:"id" yaml:"id" toml:"id"`
	Name        string                  `json:"name" yaml:"name" toml:"name"`
	DisplayName string                  `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Comment     string                  `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	Extends     []string                `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
	Chain       []string                `json:"chain,omitempty" yaml:"chain,omitempty" toml:"chain,omitempty"`
	Path        string                  `json:"path" yaml:"path" toml:"path"`
	Container   bool                    `json:"container" yaml:"container" toml:"container"`
	Children    []string                `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Schemas     []string                `json:"schemas,omitempty" yaml:"schemas,omitempty" toml:"schemas,omitempty"`
	Contents    map[string]contentsView `json:"contents,omitempty" yaml:"contents,omitempty" toml:"contents,omitempty"`
	TargetOf    targetOfView            `json:"target_of" yaml:"target_of" toml:"target_of"`
}

type contentsView struct {
	Direct    []string            `json:"direct,omitempty" yaml:"direct,omitempty" toml:"direct,omitempty"`
	Inherited map[string][]string `json:"inherited,omitempty" yaml:"inherited,omitempty" toml:"inherited,omitempty"`
}

type targetOfView struct {
	Direct    []string `json:"direct,omitempty" yaml:"direct,omitempty" toml:"direct,omitempty"`
	Inherited []string `json:"inherited,omitempty" yaml:"inherited,omitempty" toml:"inherited,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := dtmi.Parse(args[0])
	if err != nil {
		return errors.WithHint(err, `identifiers look like "dtmi:org:example:Space;1"`)
	}
	format, _ := cmd.Flags().GetString("format")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := loadOntology(cmd.Context(), cfg, progress.NopEmitter{})
	defer l.Cleanup()
	if err != nil {
		return err
	}

	iface, err := l.ont.LookupInterface(id)
	if err != nil {
		return err
	}
	view, err := buildView(l.ont, ontology.NewHierarchy(l.ont, cfg.Generate.MaxDepth), iface)
	if err != nil {
		return err
	}
	return display.Write(cmd.OutOrStdout(), format, view)
}

// buildView resolves everything the interface's document is made of.
func buildView(ont *ontology.Ontology, hier *ontology.Hierarchy, iface *ontology.Interface) (*interfaceView, error) {
	chain, err := hier.AncestorChain(iface)
	if err != nil {
		return nil, err
	}
	docPath, err := hier.DocPath(iface)
	if err != nil {
		return nil, err
	}

	view := &interfaceView{
		ID:          iface.ID().String(),
		Name:        iface.Name(),
		DisplayName: iface.DisplayName.Preferred(),
		Description: iface.Description.Preferred(),
		Comment:     iface.Comment,
		Path:        docPath,
		Container:   hier.IsContainer(iface),
		Contents:    make(map[string]contentsView),
	}
	for _, p := range iface.Extends {
		view.Extends = append(view.Extends, p.ID().String())
	}
	for _, a := range chain {
		view.Chain = append(view.Chain, a.Name())
	}
	for _, c := range ont.ChildrenOf(iface) {
		view.Children = append(view.Children, c.Name())
	}
	schemas := make([]dtmi.ID, 0, len(iface.Schemas))
	for _, s := range iface.Schemas {
		schemas = append(schemas, s.ID())
	}
	slices.SortFunc(schemas, dtmi.Compare)
	for _, id := range schemas {
		view.Schemas = append(view.Schemas, id.String())
	}

	for _, kind := range ontology.ContentKinds {
		cv := contentsView{}
		for _, c := range ontology.Direct(iface, kind) {
			entry, err := describeContent(c)
			if err != nil {
				return nil, err
			}
			cv.Direct = append(cv.Direct, entry)
		}
		for _, g := range ontology.InheritedGroups(iface, kind) {
			if cv.Inherited == nil {
				cv.Inherited = make(map[string][]string)
			}
			cv.Inherited[g.DefinedIn.String()] = g.Names()
		}
		if len(cv.Direct) > 0 || len(cv.Inherited) > 0 {
			view.Contents[strings.ToLower(kind.Plural())] = cv
		}
	}

	direct, inherited := ont.TargetOf(iface)
	for _, r := range direct {
		view.TargetOf.Direct = append(view.TargetOf.Direct, r.Label())
	}
	for _, r := range inherited {
		view.TargetOf.Inherited = append(view.TargetOf.Inherited, r.Label())
	}
	return view, nil
}

// describeContent renders a member as "name: schema", or "name -> target" for relationships.
func describeContent(c *ontology.Content) (string, error) {
	if c.Kind == ontology.KindRelationship {
		if c.Relationship != nil && c.Relationship.Target != nil {
			return c.Name + " -> " + c.Relationship.Target.String(), nil
		}
		return c.Name, nil
	}
	schema, err := markdown.FormatSchema(c.Schema())
	if err != nil {
		return "", err
	}
	if schema == "" {
		return c.Name, nil
	}
	return c.Name + ": " + schema, nil
}
