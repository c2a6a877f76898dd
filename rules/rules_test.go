package rules

import "testing"

func TestNewAssignsDistinctIDs(t *testing.T) {
	first := New("First", Trigger{Type: TriggerOnLand, Value: intPtr(3)}, nil, nil)
	second := New("Second", Trigger{Type: TriggerOnLand, Value: intPtr(3)}, nil, nil)
	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected assigned ids")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be distinct")
	}
}

func TestRegistryOrderAndIdentity(t *testing.T) {
	registry := NewRegistry()
	a := New("A", Trigger{Type: TriggerOnTurnStart}, nil, nil)
	b := New("B", Trigger{Type: TriggerOnMoveStart}, nil, nil)
	if err := registry.Append(a); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := registry.Append(b); err != nil {
		t.Fatalf("append b: %v", err)
	}
	if err := registry.Append(a); err == nil {
		t.Fatalf("expected duplicate id rejection")
	}

	changed := a
	changed.Title = "A changed"
	if err := registry.Replace(changed); err != nil {
		t.Fatalf("replace: %v", err)
	}
	list := registry.List()
	if len(list) != 2 || list[0].Title != "A changed" || list[1].Title != "B" {
		t.Fatalf("replacement must keep order: %+v", list)
	}

	missing := New("ghost", Trigger{Type: TriggerOnLand}, nil, nil)
	if err := registry.Replace(missing); err == nil {
		t.Fatalf("expected replace of unknown id to fail")
	}

	registry.Upsert(missing)
	if registry.Len() != 3 {
		t.Fatalf("upsert of unknown id must append, len %d", registry.Len())
	}
	renamed := missing
	renamed.Title = "ghost renamed"
	registry.Upsert(renamed)
	if registry.Len() != 3 {
		t.Fatalf("upsert of known id must replace, len %d", registry.Len())
	}
	got, ok := registry.Get(missing.ID)
	if !ok || got.Title != "ghost renamed" {
		t.Fatalf("upsert did not replace: %+v", got)
	}

	if !registry.Remove(b.ID) {
		t.Fatalf("expected removal of known id")
	}
	if registry.Remove(b.ID) {
		t.Fatalf("second removal must report false")
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 rules left, got %d", registry.Len())
	}
}

func TestListReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Upsert(New("A", Trigger{Type: TriggerOnTurnStart}, nil, nil))
	list := registry.List()
	list[0].Title = "mutated"
	if registry.List()[0].Title != "A" {
		t.Fatalf("List must return a copy")
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		want string
	}{
		{
			name: "land with tile and score gain",
			rule: Rule{
				Trigger: Trigger{Type: TriggerOnLand, Value: intPtr(5)},
				Effects: []Effect{{Type: EffectModifyScore, Value: 50, Target: TargetSelf}},
			},
			want: "On tile 5: gain 50 pts",
		},
		{
			name: "unqualified land without effects",
			rule: Rule{Trigger: Trigger{Type: TriggerOnLand}},
			want: "On any tile: (no effect)",
		},
		{
			name: "pass over taxing the others",
			rule: Rule{
				Trigger: Trigger{Type: TriggerOnPassOver, Value: intPtr(10)},
				Effects: []Effect{{Type: EffectModifyScore, Value: -10, Target: TargetOthers}},
			},
			want: "When passing tile 10: lose 10 pts (the others)",
		},
		{
			name: "dice trigger with condition and two effects",
			rule: Rule{
				Trigger:    Trigger{Type: TriggerOnDiceRoll, Value: intPtr(6)},
				Conditions: []Condition{{Type: "player_score", Operator: "greater_than", Value: "100"}},
				Effects: []Effect{
					{Type: EffectMoveRelative, Value: -3, Target: TargetSelf},
					{Type: EffectSkipTurn, Target: TargetAll},
				},
			},
			want: "When the dice shows 6 if player score is greater than 100: move back 3, skip the next turn (everyone)",
		},
		{
			name: "turn start with two conditions",
			rule: Rule{
				Trigger: Trigger{Type: TriggerOnTurnStart},
				Conditions: []Condition{
					{Type: "turn_number", Operator: "equals", Value: "1"},
					{Type: "dice_value", Operator: "not_equals", Value: "6"},
				},
				Effects: []Effect{{Type: EffectMoveRelative, Value: 2, Target: TargetSelf}},
			},
			want: "At turn start if turn number equals 1 and dice value is not 6: move forward 2",
		},
		{
			name: "teleport at move start",
			rule: Rule{
				Trigger: Trigger{Type: TriggerOnMoveStart},
				Effects: []Effect{{Type: EffectTeleport, Value: 7, Target: TargetSelf}},
			},
			want: "At move start: go to tile 7",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Describe(tc.rule); got != tc.want {
				t.Fatalf("Describe mismatch\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestDescribeIsDeterministic(t *testing.T) {
	rule := Starters()[0]
	first := Describe(rule)
	for i := 0; i < 10; i++ {
		if got := Describe(rule); got != first {
			t.Fatalf("description changed between calls: %q vs %q", first, got)
		}
	}
}

func TestStarters(t *testing.T) {
	starters := Starters()
	if len(starters) != 6 {
		t.Fatalf("expected 6 starter rules, got %d", len(starters))
	}
	seen := map[string]bool{}
	for _, rule := range starters {
		if rule.ID == "" || seen[rule.ID] {
			t.Fatalf("starter rule %q missing a unique id", rule.Title)
		}
		seen[rule.ID] = true
		if rule.Title == "" {
			t.Fatalf("starter rule without title: %+v", rule)
		}
	}
	if got := Describe(starters[1]); got != "On tile 5: gain 50 pts" {
		t.Fatalf("unexpected starter description: %q", got)
	}
}
