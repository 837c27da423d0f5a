package achievements

// Milestone is a named achievement a player unlocks at a threshold.
type Milestone struct {
	Name        string
	Description string
	Threshold   int
}

var CityMilestones = []Milestone{
	{Name: "Географ", Description: "Назвал 100 городов.", Threshold: 100},
	{Name: "Геополитик", Description: "Назвал 500 городов.", Threshold: 500},
}

var WinMilestones = []Milestone{
	{Name: "Чемпион", Description: "Победил 10 раз.", Threshold: 10},
}

// CityMilestone returns the milestone unlocked by reaching exactly total
// cities named, or nil.
func CityMilestone(total int) *Milestone {
	for i := range CityMilestones {
		if CityMilestones[i].Threshold == total {
			return &CityMilestones[i]
		}
	}
	return nil
}

// WinMilestone returns the milestone unlocked by reaching exactly total wins,
// or nil.
func WinMilestone(total int) *Milestone {
	for i := range WinMilestones {
		if WinMilestones[i].Threshold == total {
			return &WinMilestones[i]
		}
	}
	return nil
}
