package cards

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/freddys-cards/cardbattles/internal/match"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const instanceSeparator = "#"

// Card is a card template. Several instances of one template can be in play.
type Card struct {
	Id               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	match.Attributes `yaml:",inline"`
}

type catalogFile struct {
	Cards []Card `yaml:"cards"`
}

// Catalog is a read-only set of card templates.
type Catalog struct {
	cards map[string]Card
	order []string
}

// Parse reads a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Cards) == 0 {
		return nil, fmt.Errorf("catalog has no cards")
	}
	c := &Catalog{cards: make(map[string]Card, len(file.Cards))}
	for _, card := range file.Cards {
		card.Id = strings.TrimSpace(card.Id)
		if card.Id == "" {
			return nil, fmt.Errorf("card %q has no id", card.Name)
		}
		if strings.Contains(card.Id, instanceSeparator) {
			return nil, fmt.Errorf("card id %q must not contain %q", card.Id, instanceSeparator)
		}
		if _, dup := c.cards[card.Id]; dup {
			return nil, fmt.Errorf("duplicate card id %q", card.Id)
		}
		c.cards[card.Id] = card
		c.order = append(c.order, card.Id)
	}
	return c, nil
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Cards returns the templates in catalog order.
func (c *Catalog) Cards() []Card {
	out := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id])
	}
	return out
}

// Get resolves a template id or an instance id to its template.
func (c *Catalog) Get(cardId string) (Card, bool) {
	card, ok := c.cards[TemplateId(cardId)]
	return card, ok
}

// GetAttributes implements match.CardLookup.
func (c *Catalog) GetAttributes(cardId string) (match.Attributes, error) {
	card, ok := c.Get(cardId)
	if !ok {
		return match.Attributes{}, fmt.Errorf("%w: %s", match.ErrUnknownCard, cardId)
	}
	return card.Attributes, nil
}

// InstanceId names copy n of a template, e.g. "foxy#2".
func InstanceId(templateId string, n int) string {
	return templateId + instanceSeparator + strconv.Itoa(n)
}

// TemplateId strips the copy suffix from an instance id.
func TemplateId(cardId string) string {
	id, _, _ := strings.Cut(cardId, instanceSeparator)
	return id
}
