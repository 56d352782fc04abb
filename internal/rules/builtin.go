package rules

// Builtin returns a fresh registry loaded with the stock style rules.
// Callers that want a different set build their own registry and
// register into it.
func Builtin() *Registry {
	reg := NewRegistry()
	for _, r := range []Rule{
		braceStyleRule(),
		quoteStyleRule(),
		namingCaseRule(),
		requireOrderRule(),
		methodOrderRule(),
		indentStyleRule(),
		exportStyleRule(),
		funcInLoopRule(),
	} {
		if err := reg.Register(r); err != nil {
			panic(err)
		}
	}
	return reg
}
