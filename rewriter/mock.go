package rewriter

// MockRewriter is a mock implementation of the Interface for testing
type MockRewriter struct {
	RewriteWithFunc func(content []byte, plan Plan) ([]byte, error)
	DefaultPlan     Plan
}

// Rewrite implements Interface.Rewrite
func (m *MockRewriter) Rewrite(content []byte) ([]byte, error) {
	return m.RewriteWith(content, m.DefaultPlan)
}

// RewriteWith implements Interface.RewriteWith
func (m *MockRewriter) RewriteWith(content []byte, plan Plan) ([]byte, error) {
	if m.RewriteWithFunc != nil {
		return m.RewriteWithFunc(content, plan)
	}
	return content, nil
}

// Plan implements Interface.Plan
func (m *MockRewriter) Plan() Plan {
	return m.DefaultPlan
}
