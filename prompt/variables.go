package prompt

// CollectVariables returns the distinct placeholder names used by set, in
// order of first occurrence (templates in order, then tokens in order).
// Names are compared exactly: case-sensitive, no trimming.
func CollectVariables(set []MessageTemplate) []string {
	seen := make(map[string]struct{})
	vars := make([]string, 0)
	for _, tmpl := range set {
		for _, tok := range tmpl.tokens {
			if tok.Kind != TokenPlaceholder {
				continue
			}
			if _, ok := seen[tok.Text]; ok {
				continue
			}
			seen[tok.Text] = struct{}{}
			vars = append(vars, tok.Text)
		}
	}
	return vars
}
