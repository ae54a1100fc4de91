package budget

import "github.com/credalabs/creda/internal/models"

// Bandit learning bounds.
const (
	maxBaseAllocation = 0.8
	minBaseAllocation = 0.1

	highRewardThreshold = 0.7
	lowRewardThreshold  = 0.3

	// feedbackSaturation is the observation count at which data confidence
	// reaches its maximum.
	feedbackSaturation = 50.0
)

// rewardFromSatisfaction maps 1-5 satisfaction onto a 0-1 reward.
// An unsuccessful outcome always yields zero reward.
func rewardFromSatisfaction(satisfaction int, success bool) float64 {
	if !success {
		return 0
	}
	if satisfaction < 1 {
		satisfaction = 1
	}
	if satisfaction > 5 {
		satisfaction = 5
	}
	return float64(satisfaction-1) / 4.0
}

// applyFeedback credits one observation to an arm and nudges its base
// allocation when the running average crosses the satisfaction thresholds.
func (s *Service) applyFeedback(arm *models.BanditArm, reward float64) {
	arm.Count++
	arm.RewardSum += reward

	avg := arm.RewardSum / float64(arm.Count)
	switch {
	case avg > highRewardThreshold:
		arm.BaseAllocation = min(arm.BaseAllocation+s.config.Advisory.LearningRate, maxBaseAllocation)
	case avg < lowRewardThreshold:
		arm.BaseAllocation = max(arm.BaseAllocation-s.config.Advisory.LearningRate, minBaseAllocation)
	}
}
