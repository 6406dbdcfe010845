package operators

import (
	"bytes"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type OperatorDefinition struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Normaliser maps the free-form operator tags found in OSM onto the canonical
// business organisation abbreviations used by ATLAS
type Normaliser struct {
	aliases map[string]string
}

func NewNormaliser(definitions []OperatorDefinition) *Normaliser {
	normaliser := &Normaliser{aliases: map[string]string{}}

	for _, definition := range definitions {
		normaliser.aliases[aliasKey(definition.Name)] = definition.Name

		for _, alias := range definition.Aliases {
			normaliser.aliases[aliasKey(alias)] = definition.Name
		}
	}

	return normaliser
}

func Default() *Normaliser {
	return NewNormaliser(defaultDefinitions)
}

// LoadFile reads a YAML list of operator definitions. Documents are appended to the
// built-in definitions so a file only has to list the additions.
func LoadFile(path string) (*Normaliser, error) {
	definitionsYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	definitions := append([]OperatorDefinition{}, defaultDefinitions...)

	decoder := yaml.NewDecoder(bytes.NewReader(definitionsYaml))
	for {
		var document []OperatorDefinition
		if decoder.Decode(&document) != nil {
			break
		}

		definitions = append(definitions, document...)
	}

	log.Debug().Str("path", path).Int("definitions", len(definitions)).Msg("Loaded operator definitions")

	return NewNormaliser(definitions), nil
}

// Normalise returns the canonical operator name, or the trimmed input when it is unknown
func (n *Normaliser) Normalise(operator string) string {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return ""
	}

	if canonical, exists := n.aliases[aliasKey(operator)]; exists {
		return canonical
	}

	return operator
}

func aliasKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var defaultDefinitions = []OperatorDefinition{
	{Name: "SBB", Aliases: []string{"Schweizerische Bundesbahnen", "Schweizerische Bundesbahnen SBB", "SBB CFF FFS", "CFF", "FFS", "SBB AG"}},
	{Name: "BLS", Aliases: []string{"BLS AG", "BLS Lötschbergbahn"}},
	{Name: "PAG", Aliases: []string{"PostAuto", "PostAuto AG", "CarPostal", "AutoPostale"}},
	{Name: "RhB", Aliases: []string{"Rhätische Bahn", "Rhaetische Bahn", "Ferrovia retica"}},
	{Name: "SOB", Aliases: []string{"Schweizerische Südostbahn", "Südostbahn", "SOB AG"}},
	{Name: "VBZ", Aliases: []string{"Verkehrsbetriebe Zürich", "Verkehrsbetriebe der Stadt Zürich"}},
	{Name: "BERNMOBIL", Aliases: []string{"Bernmobil", "Städtische Verkehrsbetriebe Bern", "SVB"}},
	{Name: "TPG", Aliases: []string{"Transports publics genevois"}},
	{Name: "TL", Aliases: []string{"Transports publics de la région lausannoise", "tl"}},
	{Name: "BVB", Aliases: []string{"Basler Verkehrs-Betriebe"}},
	{Name: "MBC", Aliases: []string{"Transports de la région Morges-Bière-Cossonay"}},
	{Name: "ZB", Aliases: []string{"Zentralbahn", "zb Zentralbahn AG"}},
	{Name: "MGB", Aliases: []string{"Matterhorn Gotthard Bahn"}},
	{Name: "TPF", Aliases: []string{"Transports publics fribourgeois"}},
	{Name: "VBL", Aliases: []string{"Verkehrsbetriebe Luzern"}},
}
