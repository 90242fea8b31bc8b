package lottery

import (
	"fmt"
	"math/rand"
	"sort"
)

// Pick is a randomly generated set of ticket numbers.
type Pick struct {
	Numbers  [WhiteBallCount]int
	MegaBall int
}

// QuickPick draws five distinct white balls and a megaball from r.
func QuickPick(r *rand.Rand) Pick {
	perm := r.Perm(WhiteBallMax - WhiteBallMin + 1)
	nums := make([]int, WhiteBallCount)
	for i := range nums {
		nums[i] = perm[i] + WhiteBallMin
	}
	sort.Ints(nums)

	var p Pick
	copy(p.Numbers[:], nums)
	p.MegaBall = r.Intn(MegaBallMax-MegaBallMin+1) + MegaBallMin
	return p
}

func (p Pick) String() string {
	return fmt.Sprintf("\nQuick pick:\n===========\nNumbers:  %s\nMegaball: %02d\n",
		FormatNumbers(p.Numbers, ", "), p.MegaBall)
}
