package rules

import (
	"fmt"
	"strings"
)

// Describe renders a rule as one deterministic human-readable sentence:
// trigger phrase, optional condition clause, then the effect phrases joined
// by commas. Identical rules always produce identical text.
func Describe(rule Rule) string {
	var b strings.Builder
	b.WriteString(describeTrigger(rule.Trigger))

	if len(rule.Conditions) > 0 {
		b.WriteString(" if ")
		parts := make([]string, 0, len(rule.Conditions))
		for _, cond := range rule.Conditions {
			parts = append(parts, describeCondition(cond))
		}
		b.WriteString(strings.Join(parts, " and "))
	}

	if len(rule.Effects) == 0 {
		b.WriteString(": (no effect)")
		return b.String()
	}

	b.WriteString(": ")
	parts := make([]string, 0, len(rule.Effects))
	for _, effect := range rule.Effects {
		parts = append(parts, describeEffect(effect))
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

func describeTrigger(trigger Trigger) string {
	switch trigger.Type {
	case TriggerOnLand:
		if trigger.Value != nil {
			return fmt.Sprintf("On tile %d", *trigger.Value)
		}
		return "On any tile"
	case TriggerOnPassOver:
		if trigger.Value != nil {
			return fmt.Sprintf("When passing tile %d", *trigger.Value)
		}
		return "When passing a tile"
	case TriggerOnDiceRoll:
		if trigger.Value != nil {
			return fmt.Sprintf("When the dice shows %d", *trigger.Value)
		}
		return "On dice roll"
	case TriggerOnTurnStart:
		return "At turn start"
	case TriggerOnMoveStart:
		return "At move start"
	default:
		return string(trigger.Type)
	}
}

func describeCondition(cond Condition) string {
	operator := cond.Operator
	switch cond.Operator {
	case "equals":
		operator = "equals"
	case "not_equals":
		operator = "is not"
	case "greater_than":
		operator = "is greater than"
	case "less_than":
		operator = "is less than"
	}
	return fmt.Sprintf("%s %s %s", strings.ReplaceAll(cond.Type, "_", " "), operator, cond.Value)
}

func describeEffect(effect Effect) string {
	var phrase string
	switch effect.Type {
	case EffectMoveRelative:
		if effect.Value >= 0 {
			phrase = fmt.Sprintf("move forward %d", effect.Value)
		} else {
			phrase = fmt.Sprintf("move back %d", -effect.Value)
		}
	case EffectTeleport:
		phrase = fmt.Sprintf("go to tile %d", effect.Value)
	case EffectModifyScore:
		if effect.Value >= 0 {
			phrase = fmt.Sprintf("gain %d pts", effect.Value)
		} else {
			phrase = fmt.Sprintf("lose %d pts", -effect.Value)
		}
	case EffectSkipTurn:
		phrase = "skip the next turn"
	default:
		phrase = fmt.Sprintf("%s (%d)", effect.Type, effect.Value)
	}

	switch effect.Target {
	case TargetAll:
		phrase += " (everyone)"
	case TargetOthers:
		phrase += " (the others)"
	}
	return phrase
}
