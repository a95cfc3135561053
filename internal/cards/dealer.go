package cards

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var ErrNotEnoughCards = errors.New("not enough cards to deal")

// Dealer shuffles a deck of card instances and deals disjoint hands.
type Dealer struct {
	catalog  *Catalog
	copies   int
	handSize int

	rng *rand.Rand
	mu  sync.Mutex
}

// NewDealer builds a deck with copies instances of every template. A nil rng
// gets a time-seeded one.
func NewDealer(catalog *Catalog, copies, handSize int, rng *rand.Rand) *Dealer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if copies < 1 {
		copies = 1
	}
	return &Dealer{
		catalog:  catalog,
		copies:   copies,
		handSize: handSize,
		rng:      rng,
	}
}

// Deck lists every instance id in catalog order.
func (d *Dealer) Deck() []string {
	deck := make([]string, 0, d.catalog.Len()*d.copies)
	for _, card := range d.catalog.Cards() {
		for n := 1; n <= d.copies; n++ {
			deck = append(deck, InstanceId(card.Id, n))
		}
	}
	return deck
}

// Deal returns one shuffled hand per player. No instance appears twice.
func (d *Dealer) Deal(players int) ([][]string, error) {
	deck := d.Deck()
	if need := players * d.handSize; need > len(deck) {
		return nil, fmt.Errorf("%w: need %d, deck has %d", ErrNotEnoughCards, need, len(deck))
	}

	d.mu.Lock()
	d.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	d.mu.Unlock()

	hands := make([][]string, players)
	for i := range hands {
		hands[i] = append([]string{}, deck[i*d.handSize:(i+1)*d.handSize]...)
	}
	return hands, nil
}
