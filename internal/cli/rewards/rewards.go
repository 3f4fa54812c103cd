package rewards

import (
	"errors"
	"fmt"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

type SparksCmd struct {
	Add SparksAddCmd `cmd:"" help:"Add (or with a negative amount, spend) sparks."`
}

type SparksAddCmd struct {
	Delta int `arg:"" help:"Sparks to add; negative values spend."`
}

func (c *SparksAddCmd) Validate() error {
	if c.Delta == 0 {
		return errors.New("amount must not be zero")
	}
	return nil
}

func (c *SparksAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	s := ctx.Dispatch(engine.AddSparks{Delta: c.Delta})
	verb := "Added"
	n := c.Delta
	if n < 0 {
		verb, n = "Spent", -n
	}
	ctx.Printf("%s %d sparks. Balance: %d ✨\n", verb, n, s.User.Sparks)
	return nil
}

type AchievementCmd struct {
	Unlock AchievementUnlockCmd `cmd:"" help:"Unlock an achievement."`
	List   AchievementListCmd   `cmd:"" help:"List achievements."`
}

type AchievementUnlockCmd struct {
	Achievement string `arg:"" help:"ID of a locked achievement, or the title of a new one."`
	Description string `short:"d" help:"Description for a new achievement."`
	Icon        string `help:"Icon for a new achievement." default:"🏆"`
	Reward      int    `short:"r" help:"Sparks reward for a new achievement." default:"50"`
	Category    string `short:"c" help:"Category for a new achievement." default:"General"`
}

func (c *AchievementUnlockCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	before := user.Sparks

	a := models.Achievement{
		Title:        c.Achievement,
		Description:  c.Description,
		Icon:         c.Icon,
		SparksReward: c.Reward,
		Category:     c.Category,
	}
	if existing, ok := findLocked(ctx.Snapshot(), c.Achievement); ok {
		a = existing
	} else if err := models.ValidateAchievement(a); err != nil {
		return err
	}

	s := ctx.Dispatch(engine.UnlockAchievement{Achievement: a})
	ctx.Printf("%s Achievement unlocked: %s (+%d sparks, balance %d)\n", a.Icon, a.Title, s.User.Sparks-before, s.User.Sparks)
	return nil
}

// findLocked matches input against the ids of locked achievements.
func findLocked(s engine.Snapshot, input string) (models.Achievement, bool) {
	var ids []string
	for _, a := range s.Achievements {
		if !a.Unlocked() {
			ids = append(ids, a.ID)
		}
	}
	id, err := cli.MatchID(input, ids)
	if err != nil {
		return models.Achievement{}, false
	}
	return s.FindAchievement(id)
}

type AchievementListCmd struct{}

func (c *AchievementListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	list := ctx.Snapshot().Achievements
	if len(list) == 0 {
		ctx.Println("No achievements yet.")
		return nil
	}
	loc := ctx.Location()
	for _, a := range list {
		if a.Unlocked() {
			ctx.Printf("  %s %s  %s (+%d, unlocked %s)\n", a.Icon, cli.ShortID(a.ID), a.Title, a.SparksReward, utils.FormatDate(*a.UnlockedAt, loc))
			continue
		}
		progress := ""
		if a.Target != nil {
			done := 0
			if a.Progress != nil {
				done = *a.Progress
			}
			progress = fmt.Sprintf(", %d/%d", done, *a.Target)
		}
		ctx.Printf("  🔒 %s  %s (+%d%s)\n", cli.ShortID(a.ID), a.Title, a.SparksReward, progress)
	}
	return nil
}

type RewardCmd struct {
	List  RewardListCmd  `cmd:"" help:"Show the reward catalogue."`
	Claim RewardClaimCmd `cmd:"" help:"Spend sparks on a reward."`
}

type RewardListCmd struct {
	Category string `short:"c" help:"Only show one category (wellness|entertainment|social|productivity)."`
}

func (c *RewardListCmd) Validate() error {
	switch c.Category {
	case "", models.RewardWellness, models.RewardEntertainment, models.RewardSocial, models.RewardProductivity:
		return nil
	}
	return fmt.Errorf("unknown reward category %q", c.Category)
}

func (c *RewardListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	ctx.Printf("Balance: %d ✨\n", user.Sparks)
	for _, r := range models.RewardCatalog {
		if c.Category != "" && r.Category != c.Category {
			continue
		}
		switch {
		case !r.Unlocked(user.Sparks):
			ctx.Printf("  🔒 %s  %s (%d sparks, unlocks at %d)\n", r.ID, r.Title, r.Cost, r.UnlockAt)
		case r.Claimable(user.Sparks):
			ctx.Printf("  %s %s  %s (%d sparks, %s)\n", r.Icon, r.ID, r.Title, r.Cost, r.Category)
		default:
			ctx.Printf("  %s %s  %s (%d sparks, need %d more)\n", r.Icon, r.ID, r.Title, r.Cost, r.Cost-user.Sparks)
		}
	}
	return nil
}

type RewardClaimCmd struct {
	Reward string `arg:"" help:"Reward ID from 'reward list'."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RewardClaimCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	r, ok := models.FindReward(c.Reward)
	if !ok {
		return fmt.Errorf("unknown reward %q", c.Reward)
	}
	if !r.Unlocked(user.Sparks) {
		return fmt.Errorf("%s unlocks at %d sparks", r.Title, r.UnlockAt)
	}
	if !r.Claimable(user.Sparks) {
		return fmt.Errorf("not enough sparks for %s: need %d, have %d", r.Title, r.Cost, user.Sparks)
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Spend %d sparks on %s?", r.Cost, r.Title))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Claim cancelled.")
			return nil
		}
	}
	s := ctx.Dispatch(engine.AddSparks{Delta: -r.Cost})
	ctx.Printf("%s Claimed %s (-%d sparks, balance %d)\n", r.Icon, r.Title, r.Cost, s.User.Sparks)
	return nil
}
