// Package betting turns a ranked field into a sized set of betting tickets.
package betting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

// PivotPolicy chooses the second pivot of the pivot format.
type PivotPolicy string

const (
	PivotTop       PivotPolicy = "top"
	PivotDarkHorse PivotPolicy = "dark_horse"
)

// Config is the budget and ticket shape configuration.
type Config struct {
	Format             models.BetFormat `mapstructure:"format" json:"format" validate:"betformat"`
	Budget             int64            `mapstructure:"budget" json:"budget"`
	Unit               int64            `mapstructure:"unit" json:"unit"`
	TrioShare          float64          `mapstructure:"trio_share" json:"trio_share"`
	TrioPivots         int              `mapstructure:"trio_pivots" json:"trio_pivots"`
	TrioCompanions     int              `mapstructure:"trio_companions" json:"trio_companions"`
	TrifectaCompanions int              `mapstructure:"trifecta_companions" json:"trifecta_companions"`
	BoxSize            int              `mapstructure:"box_size" json:"box_size"`
	PivotPolicy        PivotPolicy      `mapstructure:"pivot_policy" json:"pivot_policy"`
}

// DefaultConfig returns the standard 10,000 yen pivot configuration.
func DefaultConfig() Config {
	return Config{
		Format:             models.BetFormatPivot,
		Budget:             10000,
		Unit:               100,
		TrioShare:          0.5,
		TrioPivots:         1,
		TrioCompanions:     4,
		TrifectaCompanions: 3,
		BoxSize:            5,
		PivotPolicy:        PivotTop,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	switch {
	case c.Format != models.BetFormatPivot && c.Format != models.BetFormatBox:
		return models.NewInconsistentConfigError("betting", "unknown format %q", c.Format)
	case c.Unit <= 0:
		return models.NewInconsistentConfigError("betting", "unit must be positive")
	case c.Budget < c.Unit:
		return models.NewInconsistentConfigError("betting", "budget %d is below one unit of %d", c.Budget, c.Unit)
	case c.TrioShare < 0 || c.TrioShare > 1:
		return models.NewInconsistentConfigError("betting", "trio share %.2f outside [0, 1]", c.TrioShare)
	case c.TrioPivots < 1 || c.TrioPivots > 2:
		return models.NewInconsistentConfigError("betting", "trio pivots must be 1 or 2, got %d", c.TrioPivots)
	case c.TrioCompanions < 3-c.TrioPivots:
		return models.NewInconsistentConfigError("betting", "%d trio companions cannot complete %d pivots", c.TrioCompanions, c.TrioPivots)
	case c.TrifectaCompanions < 1:
		return models.NewInconsistentConfigError("betting", "trifecta needs at least one companion")
	case c.BoxSize < 3:
		return models.NewInconsistentConfigError("betting", "box size must be at least 3, got %d", c.BoxSize)
	case c.PivotPolicy != PivotTop && c.PivotPolicy != PivotDarkHorse:
		return models.NewInconsistentConfigError("betting", "unknown pivot policy %q", c.PivotPolicy)
	}
	return c.validateBudget()
}

// validateBudget checks that the smallest ticket of each kind costs no more
// than its share of the budget.
func (c Config) validateBudget() error {
	if c.Format == models.BetFormatBox {
		share := c.boxShare()
		if need := int64(boxCombinations(models.TicketTrifectaBox, 3)) * c.Unit; share < need {
			return models.NewInconsistentConfigError("betting", "box share %d cannot cover %d for a three-horse trifecta box", share, need)
		}
		return nil
	}
	trio, trifecta := c.split()
	if trio < c.Unit {
		return models.NewInconsistentConfigError("betting", "trio share %d is below one unit of %d", trio, c.Unit)
	}
	if need := int64(trifectaPerCompanion) * c.Unit; trifecta < need {
		return models.NewInconsistentConfigError("betting", "trifecta share %d cannot cover %d for one companion", trifecta, need)
	}
	return nil
}

// split divides the budget between the trio and the trifecta tickets.
func (c Config) split() (trio, trifecta int64) {
	trio = decimal.NewFromInt(c.Budget).Mul(decimal.NewFromFloat(c.TrioShare)).IntPart()
	return trio, c.Budget - trio
}

func (c Config) boxShare() int64 {
	return c.Budget / int64(len(boxKinds))
}

// trifectaPerCompanion is the number of ordered trifecta combinations one
// companion adds to a two-pivot multi.
const trifectaPerCompanion = 6

var boxKinds = []models.TicketType{models.TicketTrifectaBox, models.TicketTrioBox, models.TicketExactaBox, models.TicketWideBox}

// Recommender builds bet plans for ranked fields. The total investment of a
// plan never exceeds the configured budget: companion sets and box sizes are
// trimmed until one unit per combination fits the ticket's share.
type Recommender struct {
	cfg Config
}

// NewRecommender validates cfg and creates a recommender.
func NewRecommender(cfg Config) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Recommender{cfg: cfg}, nil
}

// Config returns the recommender's configuration.
func (r *Recommender) Config() Config {
	return r.cfg
}

// Recommend emits the configured ticket shape for the ranked field.
func (r *Recommender) Recommend(ranked []models.ScoreResult, pc models.PaceContext) (models.BetPlan, error) {
	if len(ranked) < models.MinFieldSize {
		return models.BetPlan{}, models.NewInvalidEntrantCountError(len(ranked))
	}
	field := byRank(ranked)

	switch r.cfg.Format {
	case models.BetFormatPivot:
		return r.pivotPlan(field, pc)
	case models.BetFormatBox:
		return r.boxPlan(field, pc)
	}
	return models.BetPlan{}, models.NewInconsistentConfigError("betting", "unknown format %q", r.cfg.Format)
}

func (r *Recommender) pivotPlan(field []models.ScoreResult, pc models.PaceContext) (models.BetPlan, error) {
	pivots := r.selectPivots(field, pc)
	trioBudget, trifectaBudget := r.cfg.split()

	trioPivots := pivots[:r.cfg.TrioPivots]
	trioPick := 3 - len(trioPivots)
	trioCompanions := companions(field, trioPivots, r.cfg.TrioCompanions)
	trioFit := fit(len(trioCompanions), trioPick, trioBudget, r.cfg.Unit, func(n int) int {
		return models.Binomial(n, trioPick)
	})

	trifectaCompanions := companions(field, pivots, r.cfg.TrifectaCompanions)
	trifectaFit := fit(len(trifectaCompanions), 1, trifectaBudget, r.cfg.Unit, func(n int) int {
		return models.Binomial(n, 3-len(pivots)) * trifectaPerCompanion
	})
	trimmed := trioFit < len(trioCompanions) || trifectaFit < len(trifectaCompanions)
	trioCompanions = trioCompanions[:trioFit]
	trifectaCompanions = trifectaCompanions[:trifectaFit]

	trioCombos := models.Binomial(len(trioCompanions), trioPick)
	trio, err := models.NewTrioNagashi(trioPivots, trioCompanions, Allocate(trioBudget, trioCombos, r.cfg.Unit))
	if err != nil {
		return models.BetPlan{}, fmt.Errorf("trio nagashi: %w", err)
	}

	multiCombos := models.Binomial(len(trifectaCompanions), 3-len(pivots)) * trifectaPerCompanion
	multi, err := models.NewTrifectaMulti(pivots, trifectaCompanions, Allocate(trifectaBudget, multiCombos, r.cfg.Unit))
	if err != nil {
		return models.BetPlan{}, fmt.Errorf("trifecta multi: %w", err)
	}

	note := pivotNote(field, pivots, pc)
	if trimmed {
		note += fmt.Sprintf("; companions trimmed to fit the ¥%d budget", r.cfg.Budget)
	}
	return models.NewBetPlan(models.BetFormatPivot, []models.Ticket{trio, multi}, note)
}

func (r *Recommender) boxPlan(field []models.ScoreResult, pc models.PaceContext) (models.BetPlan, error) {
	size := r.cfg.BoxSize
	if size > len(field) {
		size = len(field)
	}
	share := r.cfg.boxShare()
	fitted := fit(size, 3, share, r.cfg.Unit, func(n int) int {
		return boxCombinations(models.TicketTrifectaBox, n)
	})
	horses := make([]int, fitted)
	for i := 0; i < fitted; i++ {
		horses[i] = field[i].HorseNumber
	}

	tickets := make([]models.Ticket, 0, len(boxKinds))
	for _, kind := range boxKinds {
		combos := boxCombinations(kind, fitted)
		t, err := models.NewBoxTicket(kind, horses, Allocate(share, combos, r.cfg.Unit))
		if err != nil {
			return models.BetPlan{}, fmt.Errorf("%s: %w", kind, err)
		}
		tickets = append(tickets, t)
	}

	note := fmt.Sprintf("box of the top %d (%s); %s pace", fitted, joinNumbers(horses), pc.Pace)
	if fitted < size {
		note += fmt.Sprintf("; box trimmed from %d to fit the ¥%d budget", size, r.cfg.Budget)
	}
	return models.NewBetPlan(models.BetFormatBox, tickets, note)
}

// fit shrinks n toward least until one unit per combination fits budget.
func fit(n, least int, budget, unit int64, combos func(int) int) int {
	for n > least && int64(combos(n))*unit > budget {
		n--
	}
	return n
}

// Allocate spreads budget across combos in whole units, floor-rounded. It
// returns zero when the budget cannot cover one unit per combination.
func Allocate(budget int64, combos int, unit int64) int64 {
	if combos <= 0 || unit <= 0 || budget <= 0 {
		return 0
	}
	return decimal.NewFromInt(budget).
		Div(decimal.NewFromInt(int64(combos))).
		Div(decimal.NewFromInt(unit)).
		Floor().
		Mul(decimal.NewFromInt(unit)).
		IntPart()
}

// selectPivots returns the two pivots in order: the top-ranked entrant and either
// the runner-up or the best-fitting dark horse.
func (r *Recommender) selectPivots(field []models.ScoreResult, pc models.PaceContext) []int {
	first := field[0].HorseNumber
	second := field[1].HorseNumber
	if r.cfg.PivotPolicy == PivotDarkHorse {
		if dh, ok := bestDarkHorse(field[1:], pc); ok {
			second = dh
		}
	}
	return []int{first, second}
}

func bestDarkHorse(candidates []models.ScoreResult, pc models.PaceContext) (int, bool) {
	best, bestValue := 0, -1.0
	for _, c := range candidates {
		if !c.IsDarkHorse {
			continue
		}
		value := c.Odds * c.IntegratedScore * styleFit(c.RunningStyle, pc)
		if value > bestValue {
			best, bestValue = c.HorseNumber, value
		}
	}
	return best, bestValue >= 0
}

func styleFit(style racing.RunningStyle, pc models.PaceContext) float64 {
	switch pc.AdvantageRank(style) {
	case 0:
		return 1.5
	case -1:
		return 1.0
	}
	return 1.2
}

// companions returns up to n entrants in rank order that are not pivots.
func companions(field []models.ScoreResult, pivots []int, n int) []int {
	out := make([]int, 0, n)
	for _, r := range field {
		if len(out) == n {
			break
		}
		if contains(pivots, r.HorseNumber) {
			continue
		}
		out = append(out, r.HorseNumber)
	}
	return out
}

func boxCombinations(kind models.TicketType, n int) int {
	switch kind {
	case models.TicketTrifectaBox:
		return n * (n - 1) * (n - 2)
	case models.TicketTrioBox:
		return models.Binomial(n, 3)
	case models.TicketExactaBox:
		return n * (n - 1)
	case models.TicketWideBox:
		return models.Binomial(n, 2)
	}
	return 0
}

func pivotNote(field []models.ScoreResult, pivots []int, pc models.PaceContext) string {
	parts := []string{fmt.Sprintf("pivots %s", joinNumbers(pivots))}
	if len(pc.AdvantageousStyles) > 0 {
		styles := make([]string, len(pc.AdvantageousStyles))
		for i, s := range pc.AdvantageousStyles {
			styles[i] = strings.ToLower(string(s))
		}
		parts = append(parts, fmt.Sprintf("%s pace favours %s", pc.Pace, strings.Join(styles, "/")))
	}
	switch {
	case pc.FrontAdvantageScore >= 0.15:
		parts = append(parts, fmt.Sprintf("%s suits forward runners", pc.Venue))
	case pc.FrontAdvantageScore <= -0.10:
		parts = append(parts, fmt.Sprintf("%s suits closers", pc.Venue))
	}
	if pc.TrackCondition != "" && pc.TrackCondition != racing.TrackGood {
		parts = append(parts, fmt.Sprintf("%s going adds variance", pc.TrackCondition))
	}
	for _, r := range field {
		if r.HorseNumber == pivots[len(pivots)-1] && r.IsDarkHorse {
			parts = append(parts, fmt.Sprintf("No.%d is a dark-horse pivot", r.HorseNumber))
		}
	}
	return strings.Join(parts, "; ")
}

func byRank(ranked []models.ScoreResult) []models.ScoreResult {
	out := append([]models.ScoreResult(nil), ranked...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func joinNumbers(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("No.%d", n)
	}
	return strings.Join(parts, ", ")
}
