package metrics

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed metric-labels.yaml
var defaultLabelData []byte

type labelFile struct {
	HeaderMap map[string]string `yaml:"header_map"`
}

// LabelMap translates report header labels into metric codes. Labels are
// matched case-insensitively with whitespace collapsed; synonyms appear
// as separate keys mapping to the same code.
type LabelMap struct {
	codes map[string]string
}

// LoadLabelMap reads a label map from the given YAML file, or the
// embedded default map when path is empty. Keys are normalized on load
// so the file may use any casing.
func LoadLabelMap(path string) (*LabelMap, error) {
	data := defaultLabelData

	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read label map: %w", err)
		}
	}

	var file labelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse label map: %w", err)
	}

	if len(file.HeaderMap) == 0 {
		return nil, fmt.Errorf("label map is empty")
	}

	codes := make(map[string]string, len(file.HeaderMap))
	for label, code := range file.HeaderMap {
		codes[normalizeLabel(label)] = code
	}

	return &LabelMap{codes: codes}, nil
}

// Resolve returns the metric code for a report label.
func (m *LabelMap) Resolve(label string) (string, bool) {
	code, ok := m.codes[normalizeLabel(label)]
	return code, ok
}

// Size returns the number of distinct labels in the map.
func (m *LabelMap) Size() int {
	return len(m.codes)
}

func normalizeLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), " "))
}
