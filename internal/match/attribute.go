package match

import (
	"fmt"
	"strings"
)

// Attribute is one of the six comparison axes printed on every card.
type Attribute uint8

const (
	Life Attribute = iota
	Attack
	Defense
	Speed
	Power
	Terror
)

var attributeNames = [...]string{
	Life:    "life",
	Attack:  "attack",
	Defense: "defense",
	Speed:   "speed",
	Power:   "power",
	Terror:  "terror",
}

// AllAttributes lists the attributes in card print order.
func AllAttributes() []Attribute {
	return []Attribute{Life, Attack, Defense, Speed, Power, Terror}
}

func (a Attribute) Valid() bool {
	return int(a) < len(attributeNames)
}

func (a Attribute) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return attributeNames[a]
}

// ParseAttribute maps a case-insensitive attribute name to its Attribute.
func ParseAttribute(name string) (Attribute, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

func (a Attribute) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAttribute, a)
	}
	return []byte(a.String()), nil
}

func (a *Attribute) UnmarshalText(text []byte) error {
	parsed, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Attributes holds the six values of a card.
type Attributes struct {
	Life    int `json:"life" yaml:"life" dynamodbav:"life"`
	Attack  int `json:"attack" yaml:"attack" dynamodbav:"attack"`
	Defense int `json:"defense" yaml:"defense" dynamodbav:"defense"`
	Speed   int `json:"speed" yaml:"speed" dynamodbav:"speed"`
	Power   int `json:"power" yaml:"power" dynamodbav:"power"`
	Terror  int `json:"terror" yaml:"terror" dynamodbav:"terror"`
}

// Value returns the value of attr. It panics on an invalid Attribute, which
// can only be produced by converting an out-of-range integer.
func (a Attributes) Value(attr Attribute) int {
	switch attr {
	case Life:
		return a.Life
	case Attack:
		return a.Attack
	case Defense:
		return a.Defense
	case Speed:
		return a.Speed
	case Power:
		return a.Power
	case Terror:
		return a.Terror
	}
	panic(fmt.Sprintf("match: invalid attribute %d", attr))
}
