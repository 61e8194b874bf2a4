package conflicts

// PackageReport is the relation of one package to the others
type PackageReport struct {
	Package           string   `yaml:"package" json:"package"`
	Overrides         []Edge   `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	OverriddenBy      []Edge   `yaml:"overridden_by,omitempty" json:"overridden_by,omitempty"`
	FullyOverriddenBy []string `yaml:"fully_overridden_by,omitempty" json:"fully_overridden_by,omitempty"`
}

// Report lists, in load order, every package that overrides or is
// overridden by another
func (r *Result) Report() []PackageReport {
	var out []PackageReport
	for _, name := range r.Order {
		pr := PackageReport{
			Package:           name,
			Overrides:         r.Graph.Overrides[name],
			OverriddenBy:      r.Graph.OverriddenBy[name],
			FullyOverriddenBy: r.Graph.FullyOverriddenBy[name],
		}
		if len(pr.Overrides) == 0 && len(pr.OverriddenBy) == 0 {
			continue
		}
		out = append(out, pr)
	}
	return out
}
