package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BetFormat selects the ticket shape emitted for a request.
type BetFormat string

const (
	BetFormatPivot BetFormat = "pivot"
	BetFormatBox   BetFormat = "box"
)

// TicketType tags a ticket.
type TicketType string

const (
	TicketTrioNagashi   TicketType = "trio_nagashi"
	TicketTrifectaMulti TicketType = "trifecta_multi"
	TicketTrifectaBox   TicketType = "trifecta_box"
	TicketTrioBox       TicketType = "trio_box"
	TicketExactaBox     TicketType = "exacta_box"
	TicketWideBox       TicketType = "wide_box"
)

// Ticket is a closed union of PivotTicket and BoxTicket.
type Ticket interface {
	Type() TicketType
	Combinations() int
	AmountPerTicket() int64
	Cost() int64
	// Enumerate lists every combination the ticket covers, derived from its
	// selection structure. Ordered ticket types list finishing order.
	Enumerate() [][]int
	CountCombinations() int
	isTicket()
}

// PivotTicket anchors one or two pivots and completes each combination from companions.
type PivotTicket struct {
	TicketType TicketType `json:"type"`
	Pivots     []int      `json:"pivots"`
	Companions []int      `json:"companions"`
	Combos     int        `json:"combinations"`
	Amount     int64      `json:"amount_per_ticket"`
}

// BoxTicket covers every arrangement of the boxed horses.
type BoxTicket struct {
	TicketType TicketType `json:"type"`
	Horses     []int      `json:"horses"`
	Combos     int        `json:"combinations"`
	Amount     int64      `json:"amount_per_ticket"`
}

func (PivotTicket) isTicket() {}
func (BoxTicket) isTicket()   {}

func (t PivotTicket) Type() TicketType       { return t.TicketType }
func (t PivotTicket) Combinations() int      { return t.Combos }
func (t PivotTicket) AmountPerTicket() int64 { return t.Amount }
func (t PivotTicket) Cost() int64            { return int64(t.Combos) * t.Amount }

func (t BoxTicket) Type() TicketType       { return t.TicketType }
func (t BoxTicket) Combinations() int      { return t.Combos }
func (t BoxTicket) AmountPerTicket() int64 { return t.Amount }
func (t BoxTicket) Cost() int64            { return int64(t.Combos) * t.Amount }

// NewTrioNagashi builds a trio pivot-nagashi ticket.
func NewTrioNagashi(pivots, companions []int, amount int64) (PivotTicket, error) {
	return newPivotTicket(TicketTrioNagashi, pivots, companions, amount)
}

// NewTrifectaMulti builds a trifecta multi ticket; pivots may finish in any position.
func NewTrifectaMulti(pivots, companions []int, amount int64) (PivotTicket, error) {
	return newPivotTicket(TicketTrifectaMulti, pivots, companions, amount)
}

func newPivotTicket(tt TicketType, pivots, companions []int, amount int64) (PivotTicket, error) {
	t := PivotTicket{
		TicketType: tt,
		Pivots:     append([]int(nil), pivots...),
		Companions: append([]int(nil), companions...),
		Amount:     amount,
	}
	if err := validateSelection(append(append([]int(nil), pivots...), companions...)); err != nil {
		return PivotTicket{}, err
	}
	if len(pivots) < 1 || len(pivots) > 2 {
		return PivotTicket{}, NewInconsistentConfigError("ticket", "%s needs 1 or 2 pivots, got %d", tt, len(pivots))
	}
	if len(companions) < 3-len(pivots) {
		return PivotTicket{}, NewInconsistentConfigError("ticket", "%s needs at least %d companions, got %d", tt, 3-len(pivots), len(companions))
	}
	if amount <= 0 {
		return PivotTicket{}, NewInconsistentConfigError("ticket", "%s amount must be positive", tt)
	}
	t.Combos = t.CountCombinations()
	return t, nil
}

// NewBoxTicket builds a box ticket of the given type.
func NewBoxTicket(tt TicketType, horses []int, amount int64) (BoxTicket, error) {
	t := BoxTicket{TicketType: tt, Horses: append([]int(nil), horses...), Amount: amount}
	if err := validateSelection(horses); err != nil {
		return BoxTicket{}, err
	}
	size, ok := boxPickSize(tt)
	if !ok {
		return BoxTicket{}, NewInconsistentConfigError("ticket", "%s is not a box ticket", tt)
	}
	if len(horses) < size {
		return BoxTicket{}, NewInconsistentConfigError("ticket", "%s needs at least %d horses, got %d", tt, size, len(horses))
	}
	if amount <= 0 {
		return BoxTicket{}, NewInconsistentConfigError("ticket", "%s amount must be positive", tt)
	}
	t.Combos = t.CountCombinations()
	return t, nil
}

func validateSelection(horses []int) error {
	seen := make(map[int]bool, len(horses))
	for _, h := range horses {
		if h <= 0 {
			return NewInconsistentConfigError("ticket", "invalid horse number %d", h)
		}
		if seen[h] {
			return NewInconsistentConfigError("ticket", "horse %d selected twice", h)
		}
		seen[h] = true
	}
	return nil
}

func boxPickSize(tt TicketType) (int, bool) {
	switch tt {
	case TicketTrifectaBox, TicketTrioBox:
		return 3, true
	case TicketExactaBox, TicketWideBox:
		return 2, true
	}
	return 0, false
}

// CountCombinations derives the combination count from pivots and companions.
func (t PivotTicket) CountCombinations() int {
	free := 3 - len(t.Pivots)
	n := Binomial(len(t.Companions), free)
	if t.TicketType == TicketTrifectaMulti {
		return n * 6
	}
	return n
}

// CountCombinations derives the combination count from the boxed horses.
func (t BoxTicket) CountCombinations() int {
	n := len(t.Horses)
	switch t.TicketType {
	case TicketTrifectaBox:
		return n * (n - 1) * (n - 2)
	case TicketTrioBox:
		return Binomial(n, 3)
	case TicketExactaBox:
		return n * (n - 1)
	case TicketWideBox:
		return Binomial(n, 2)
	}
	return 0
}

// Enumerate lists the covered combinations.
func (t PivotTicket) Enumerate() [][]int {
	var out [][]int
	for _, c := range combinations(t.Companions, 3-len(t.Pivots)) {
		set := append(append([]int(nil), t.Pivots...), c...)
		if t.TicketType == TicketTrifectaMulti {
			out = append(out, permutations(set, 3)...)
			continue
		}
		sort.Ints(set)
		out = append(out, set)
	}
	return out
}

// Enumerate lists the covered combinations.
func (t BoxTicket) Enumerate() [][]int {
	switch t.TicketType {
	case TicketTrifectaBox:
		return permutations(t.Horses, 3)
	case TicketTrioBox:
		return sortedCombinations(t.Horses, 3)
	case TicketExactaBox:
		return permutations(t.Horses, 2)
	case TicketWideBox:
		return sortedCombinations(t.Horses, 2)
	}
	return nil
}

// Binomial returns C(n, k), zero when k is out of range.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

func combinations(items []int, k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	var out [][]int
	var walk func(start int, acc []int)
	walk = func(start int, acc []int) {
		if len(acc) == k {
			out = append(out, append([]int(nil), acc...))
			return
		}
		for i := start; i < len(items); i++ {
			walk(i+1, append(acc, items[i]))
		}
	}
	walk(0, nil)
	return out
}

func sortedCombinations(items []int, k int) [][]int {
	out := combinations(items, k)
	for _, c := range out {
		sort.Ints(c)
	}
	return out
}

func permutations(items []int, k int) [][]int {
	var out [][]int
	used := make([]bool, len(items))
	var walk func(acc []int)
	walk = func(acc []int) {
		if len(acc) == k {
			out = append(out, append([]int(nil), acc...))
			return
		}
		for i, it := range items {
			if used[i] {
				continue
			}
			used[i] = true
			walk(append(acc, it))
			used[i] = false
		}
	}
	walk(nil)
	return out
}

// BetPlan is the set of tickets proposed for a race.
type BetPlan struct {
	Format          BetFormat
	Tickets         []Ticket
	TotalInvestment int64
	Note            string
}

// NewBetPlan assembles a plan and checks the cost invariants. Every ticket must
// match the plan's format, its stored combination count must equal the count
// derived from its selection, and the total must equal the sum of ticket costs.
func NewBetPlan(format BetFormat, tickets []Ticket, note string) (BetPlan, error) {
	plan := BetPlan{
		Format:  format,
		Tickets: append([]Ticket(nil), tickets...),
		Note:    note,
	}
	for _, t := range plan.Tickets {
		plan.TotalInvestment += t.Cost()
	}
	if err := plan.Verify(); err != nil {
		return BetPlan{}, err
	}
	return plan, nil
}

// Verify re-checks every invariant of the plan.
func (p BetPlan) Verify() error {
	if len(p.Tickets) == 0 {
		return NewInconsistentConfigError("bet plan", "no tickets")
	}
	var total int64
	for i, t := range p.Tickets {
		switch tk := t.(type) {
		case PivotTicket:
			if p.Format != BetFormatPivot {
				return NewInconsistentConfigError("bet plan", "ticket %d (%s) does not belong to %s format", i, tk.TicketType, p.Format)
			}
		case BoxTicket:
			if p.Format != BetFormatBox {
				return NewInconsistentConfigError("bet plan", "ticket %d (%s) does not belong to %s format", i, tk.TicketType, p.Format)
			}
		default:
			return NewInconsistentConfigError("bet plan", "unknown ticket variant %T", t)
		}

		derived := t.CountCombinations()
		enumerated := t.Enumerate()
		if t.Combinations() != derived || len(enumerated) != derived {
			return NewInconsistentConfigError("bet plan", "%s stores %d combinations, selection yields %d (enumerated %d)",
				t.Type(), t.Combinations(), derived, len(enumerated))
		}
		if dup := firstDuplicate(enumerated); dup != "" {
			return NewInconsistentConfigError("bet plan", "%s covers %s twice", t.Type(), dup)
		}
		total += int64(t.Combinations()) * t.AmountPerTicket()
	}
	if total != p.TotalInvestment {
		return NewInconsistentConfigError("bet plan", "total investment %d does not equal ticket sum %d", p.TotalInvestment, total)
	}
	return nil
}

func firstDuplicate(combos [][]int) string {
	seen := make(map[string]bool, len(combos))
	for _, c := range combos {
		parts := make([]string, len(c))
		for i, h := range c {
			parts[i] = fmt.Sprint(h)
		}
		key := strings.Join(parts, "-")
		if seen[key] {
			return key
		}
		seen[key] = true
	}
	return ""
}

// TotalCombinations sums combinations across all tickets.
func (p BetPlan) TotalCombinations() int {
	n := 0
	for _, t := range p.Tickets {
		n += t.Combinations()
	}
	return n
}

// MarshalJSON encodes the plan with each ticket tagged by type.
func (p BetPlan) MarshalJSON() ([]byte, error) {
	tickets := make([]json.RawMessage, 0, len(p.Tickets))
	for _, t := range p.Tickets {
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, raw)
	}
	return json.Marshal(struct {
		Format          BetFormat         `json:"format"`
		Tickets         []json.RawMessage `json:"tickets"`
		TotalInvestment int64             `json:"total_investment"`
		Note            string            `json:"note"`
	}{p.Format, tickets, p.TotalInvestment, p.Note})
}
