package maintenance

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/evasao/pkg/evasao/geo"
)

// DraftWriter persists a corrections draft (file, stdout, etc.).
type DraftWriter interface {
	WriteDraft(ctx context.Context, content []byte) error
}

// CorrectionExporter renders unresolved places as a corrections file in the
// format accepted by lexicon.LoadFromYAML. Each place becomes a candidate
// entry with its closest suggestion as canonical; a reviewer deletes the
// wrong ones before feeding the file back through the config.
type CorrectionExporter struct {
	Writer DraftWriter
}

// FileDraft writes the draft to a file path.
type FileDraft string

// WriteDraft implements DraftWriter.
func (f FileDraft) WriteDraft(_ context.Context, content []byte) error {
	return os.WriteFile(string(f), content, 0o644)
}

type draftEntry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// Export writes one candidate per place that has at least one suggestion.
// It returns the number of candidates written.
func (e *CorrectionExporter) Export(ctx context.Context, places []geo.UnresolvedPlace) (int, error) {
	if e.Writer == nil {
		return 0, fmt.Errorf("correction exporter: nil writer")
	}
	doc := &yaml.Node{Kind: yaml.MappingNode}
	list := &yaml.Node{Kind: yaml.SequenceNode}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "corrections"}, list)

	n := 0
	for _, p := range places {
		if len(p.Suggestions) == 0 {
			continue
		}
		var item yaml.Node
		if err := item.Encode(draftEntry{Canonical: p.Suggestions[0], Variants: []string{p.Neighborhood}}); err != nil {
			return n, err
		}
		item.HeadComment = fmt.Sprintf("%d rows, city %q; alternatives: %v", p.Rows, p.City, p.Suggestions[1:])
		list.Content = append(list.Content, &item)
		n++
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return n, err
	}
	return n, e.Writer.WriteDraft(ctx, out)
}
