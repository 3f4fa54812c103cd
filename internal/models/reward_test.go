package models

import "testing"

func TestRewardClaimable(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		sparks    int
		unlocked  bool
		claimable bool
	}{
		{"affordable", "1", 100, true, true},
		{"exact cost", "1", 50, true, true},
		{"too expensive", "5", 120, true, false},
		{"locked", "6", 150, false, false},
		{"unlocked and affordable", "6", 300, true, true},
		{"negative balance", "1", -20, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := FindReward(tt.id)
			if !ok {
				t.Fatalf("FindReward(%q) not found", tt.id)
			}
			if got := r.Unlocked(tt.sparks); got != tt.unlocked {
				t.Errorf("Unlocked(%d) = %v, want %v", tt.sparks, got, tt.unlocked)
			}
			if got := r.Claimable(tt.sparks); got != tt.claimable {
				t.Errorf("Claimable(%d) = %v, want %v", tt.sparks, got, tt.claimable)
			}
		})
	}
}

func TestFindRewardUnknown(t *testing.T) {
	if _, ok := FindReward("0"); ok {
		t.Error("FindReward(\"0\") found an entry")
	}
}
