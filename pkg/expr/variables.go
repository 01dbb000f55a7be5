package expr

import (
	"slices"

	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/dagview/traverse"
)

// Variables collects the distinct variable names referenced by the
// expression, sorted. It runs as a post-order fold over the view, so the
// same mechanism works on any adapter, not just this package's trees.
func Variables(root Node) ([]string, error) {
	v := NewView(root)
	results, err := traverse.Fold(v, func(_ dagview.View, h dagview.Handle, childResults [][]string) ([]string, error) {
		var names []string
		for _, cr := range childResults {
			names = append(names, cr...)
		}
		if eh, ok := h.(Handle); ok {
			if vn, ok := eh.Node.(*Variable); ok {
				names = append(names, vn.Name)
			}
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}

	if root == nil {
		return nil, nil
	}
	names := results[v.keys[root]]
	slices.Sort(names)
	return slices.Compact(names), nil
}
