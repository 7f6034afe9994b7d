package rewriter

// Interface defines the contract for rewriting master playlists
type Interface interface {
	// Rewrite sorts content with the default plan
	Rewrite(content []byte) ([]byte, error)

	// RewriteWith sorts content with the given plan
	RewriteWith(content []byte, plan Plan) ([]byte, error)

	// Plan returns the default plan
	Plan() Plan
}

var _ Interface = (*Rewriter)(nil)
