// Package mock provides test double implementations of AI service interfaces.
//
// The mocks let tests run without a model server and keep tagging
// deterministic.
//
// # Usage in Tests
//
//	// Default behavior: every word is a noun unless Tags says otherwise
//	tagger := mock.NewMockTagger().WithTags(map[string]string{"walked": "VBD"})
//	tokens, err := tagger.Tag(ctx, "Armstrong walked")
//
//	// Custom behavior injection
//	tagger.WithTagFunc(func(ctx context.Context, s string) ([]ai.Token, error) {
//	    return nil, errors.New("model unavailable")
//	})
//
//	// Check call counts
//	count := tagger.CallCount()
package mock
