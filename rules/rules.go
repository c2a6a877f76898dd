// Package rules holds the declarative rule book shown to players. Rules are
// display-only records: the client renders them, the server enforces whatever
// it actually runs. Nothing here ever evaluates a trigger or applies an
// effect to game state.
package rules

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type TriggerType string

const (
	TriggerOnLand      TriggerType = "ON_LAND"
	TriggerOnPassOver  TriggerType = "ON_PASS_OVER"
	TriggerOnMoveStart TriggerType = "ON_MOVE_START"
	TriggerOnTurnStart TriggerType = "ON_TURN_START"
	TriggerOnDiceRoll  TriggerType = "ON_DICE_ROLL"
)

type EffectType string

const (
	EffectMoveRelative EffectType = "MOVE_RELATIVE"
	EffectTeleport     EffectType = "MOVE_TO_TILE"
	EffectModifyScore  EffectType = "MODIFY_STAT"
	EffectSkipTurn     EffectType = "SKIP_NEXT_TURN"
)

type Target string

const (
	TargetSelf   Target = "self"
	TargetAll    Target = "all"
	TargetOthers Target = "others"
)

// Trigger starts a rule. Value is a tile index for land/pass triggers and a
// die face for dice triggers; nil means the trigger fires unqualified.
type Trigger struct {
	Type  TriggerType `json:"type" jsonschema:"title=Trigger type,description=When the rule fires"`
	Value *int        `json:"value,omitempty" jsonschema:"description=Tile index or dice value qualifying the trigger"`
}

// Condition gates a rule; an empty condition list means always true.
type Condition struct {
	Type     string `json:"type" jsonschema:"description=Observed quantity such as player_score or dice_value"`
	Operator string `json:"operator" jsonschema:"description=Comparison operator: equals greater_than less_than not_equals"`
	Value    string `json:"value" jsonschema:"description=Comparison operand"`
}

// Effect is what the rule does, as text: a type, a signed magnitude, and the
// scope of players it applies to.
type Effect struct {
	Type   EffectType `json:"type" jsonschema:"title=Effect type"`
	Value  int        `json:"value" jsonschema:"description=Signed magnitude; negative moves back or costs points"`
	Target Target     `json:"target" jsonschema:"description=Scope: self all or others"`
}

// Rule is an immutable record; edits go through full replace, never field
// mutation.
type Rule struct {
	ID         string      `json:"id" jsonschema:"description=Unique rule identifier"`
	Title      string      `json:"title" jsonschema:"minLength=1"`
	Trigger    Trigger     `json:"trigger"`
	Conditions []Condition `json:"conditions"`
	Effects    []Effect    `json:"effects"`
}

// File is the serialized rule-book shape the schema export tool reflects.
type File struct {
	Rules []Rule `json:"rules"`
}

// New builds a rule with a fresh identity.
func New(title string, trigger Trigger, conditions []Condition, effects []Effect) Rule {
	return Rule{
		ID:         uuid.NewString(),
		Title:      title,
		Trigger:    trigger,
		Conditions: append([]Condition(nil), conditions...),
		Effects:    append([]Effect(nil), effects...),
	}
}

// Registry is the ordered rule book. Order is author order and survives
// replacement.
type Registry struct {
	mu    sync.Mutex
	rules []Rule
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rules)
}

// List returns a copy of the rule book in order.
func (r *Registry) List() []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Rule(nil), r.rules...)
}

func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, true
		}
	}
	return Rule{}, false
}

// Append adds a rule to the end of the book.
func (r *Registry) Append(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.ID == rule.ID {
			return fmt.Errorf("append rule: id %s already present", rule.ID)
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Replace swaps the rule with the same identity in place.
func (r *Registry) Replace(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules {
		if existing.ID == rule.ID {
			r.rules[i] = rule
			return nil
		}
	}
	return fmt.Errorf("replace rule: id %s not found", rule.ID)
}

// Upsert replaces by identity or appends when the identity is new, matching
// the save semantics of the rule-builder form.
func (r *Registry) Upsert(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules {
		if existing.ID == rule.ID {
			r.rules[i] = rule
			return
		}
	}
	r.rules = append(r.rules, rule)
}

// Remove deletes by identity and reports whether anything was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules {
		if existing.ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }

// Starters returns the default rule book new sessions open with.
func Starters() []Rule {
	return []Rule{
		New("Head Start", Trigger{Type: TriggerOnTurnStart},
			[]Condition{{Type: "turn_number", Operator: "equals", Value: "1"}},
			[]Effect{{Type: EffectMoveRelative, Value: 2, Target: TargetSelf}}),
		New("Special Boost", Trigger{Type: TriggerOnLand, Value: intPtr(5)}, nil,
			[]Effect{{Type: EffectModifyScore, Value: 50, Target: TargetSelf}}),
		New("Violet Bonus", Trigger{Type: TriggerOnLand, Value: intPtr(15)}, nil,
			[]Effect{{Type: EffectModifyScore, Value: 100, Target: TargetSelf}}),
		New("Trap Door", Trigger{Type: TriggerOnLand, Value: intPtr(10)}, nil,
			[]Effect{{Type: EffectMoveRelative, Value: -3, Target: TargetSelf}}),
		New("Crowd Tax", Trigger{Type: TriggerOnPassOver, Value: intPtr(10)}, nil,
			[]Effect{{Type: EffectModifyScore, Value: -10, Target: TargetOthers}}),
		New("End Tile Win", Trigger{Type: TriggerOnLand, Value: intPtr(19)}, nil,
			[]Effect{{Type: EffectModifyScore, Value: 500, Target: TargetSelf}}),
	}
}
