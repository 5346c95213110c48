package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/RealEstateCore/DTDL2MD/progress"
)

// TreeCmd represents the tree command
var TreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the placement tree of an ontology",
	Long: `Print every interface under the parent it is placed beneath, which is
the last interface of its longest ancestor chain. This is the directory
layout generate writes.

Examples:
  dtdl2md tree -i ontology/`,
	RunE: runTree,
}

func init() {
	addInputFlags(TreeCmd.Flags())
	TreeCmd.Flags().Int("max-depth", 0, "Maximum inheritance depth (default: 256)")
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	l, err := loadOntology(cmd.Context(), cfg, progress.NopEmitter{})
	defer l.Cleanup()
	if err != nil {
		return err
	}

	root, err := placementTree(l.ont, ontology.NewHierarchy(l.ont, cfg.Generate.MaxDepth))
	if err != nil {
		return err
	}
	rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// placementTree nests every interface under its placement parent.
func placementTree(ont *ontology.Ontology, hier *ontology.Hierarchy) (pterm.TreeNode, error) {
	placed := make(map[*ontology.Interface][]*ontology.Interface)
	var roots []*ontology.Interface
	for _, iface := range ont.Interfaces() {
		chain, err := hier.AncestorChain(iface)
		if err != nil {
			return pterm.TreeNode{}, err
		}
		if len(chain) == 0 {
			roots = append(roots, iface)
			continue
		}
		parent := chain[len(chain)-1]
		placed[parent] = append(placed[parent], iface)
	}

	var build func(ifaces []*ontology.Interface) []pterm.TreeNode
	build = func(ifaces []*ontology.Interface) []pterm.TreeNode {
		nodes := make([]pterm.TreeNode, 0, len(ifaces))
		for _, iface := range ifaces {
			nodes = append(nodes, pterm.TreeNode{
				Text:     iface.Name(),
				Children: build(placed[iface]),
			})
		}
		return nodes
	}
	return pterm.TreeNode{
		Text:     fmt.Sprintf("Ontology (%d interfaces)", len(ont.Interfaces())),
		Children: build(roots),
	}, nil
}
