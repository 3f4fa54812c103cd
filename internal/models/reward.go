package models

// Reward is a catalogue item that can be bought with sparks.
type Reward struct {
	ID          string
	Title       string
	Description string
	Cost        int
	Category    string
	Icon        string

	// UnlockAt is the balance at which the reward becomes available. Zero means always.
	UnlockAt int
}

const (
	RewardWellness      = "wellness"
	RewardEntertainment = "entertainment"
	RewardSocial        = "social"
	RewardProductivity  = "productivity"
)

var RewardCatalog = []Reward{
	{ID: "1", Title: "30 minute break", Description: "Take 30 minutes to relax, guilt free", Cost: 50, Category: RewardWellness, Icon: "💗"},
	{ID: "2", Title: "Series episode", Description: "Watch an episode of your favorite show", Cost: 75, Category: RewardEntertainment, Icon: "⭐"},
	{ID: "3", Title: "Special snack", Description: "Buy that snack you have been wanting", Cost: 100, Category: RewardWellness, Icon: "🎁"},
	{ID: "4", Title: "Coffee break", Description: "Go to your favorite coffee shop", Cost: 80, Category: RewardSocial, Icon: "☕"},
	{ID: "5", Title: "Online purchase", Description: "Make a small online purchase", Cost: 150, Category: RewardEntertainment, Icon: "🛍", UnlockAt: 100},
	{ID: "6", Title: "Day off", Description: "Take a whole day for yourself", Cost: 300, Category: RewardWellness, Icon: "👑", UnlockAt: 200},
	{ID: "7", Title: "Special dinner", Description: "Go to your favorite restaurant", Cost: 250, Category: RewardSocial, Icon: "🏆", UnlockAt: 150},
	{ID: "8", Title: "New activity", Description: "Try an activity you always wanted to do", Cost: 400, Category: RewardProductivity, Icon: "🎯", UnlockAt: 300},
}

func (r Reward) Unlocked(sparks int) bool {
	return r.UnlockAt == 0 || sparks >= r.UnlockAt
}

// Claimable requires the reward to be unlocked and affordable.
func (r Reward) Claimable(sparks int) bool {
	return r.Unlocked(sparks) && sparks >= r.Cost
}

// FindReward looks up a catalogue entry by id.
func FindReward(id string) (Reward, bool) {
	for _, r := range RewardCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
