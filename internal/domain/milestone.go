package domain

// MilestoneStep is the spacing between point milestones. The first one, 1000 points,
// earns the Mountain Goat award.
const MilestoneStep = 1000

// NextMilestone returns the smallest multiple of MilestoneStep strictly above currentTotal.
func NextMilestone(currentTotal int) int {
	if currentTotal < 0 {
		currentTotal = 0
	}
	return MilestoneStep * (currentTotal/MilestoneStep + 1)
}

// MilestoneLadder lists every milestone from MilestoneStep up to and including nextTarget.
func MilestoneLadder(nextTarget int) []int {
	if nextTarget < MilestoneStep {
		return []int{}
	}
	ladder := make([]int, 0, nextTarget/MilestoneStep)
	for threshold := MilestoneStep; threshold <= nextTarget; threshold += MilestoneStep {
		ladder = append(ladder, threshold)
	}
	return ladder
}
