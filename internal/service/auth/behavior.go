package auth

import (
	"context"
	"math/rand/v2"

	"github.com/oshokin/daytrip/internal/logger"
)

const (
	// mouseMovementsPerCheck is the number of random mouse movements per polling cycle.
	mouseMovementsPerCheck = 2
	// scrollProbability is the probability of scrolling (1 in N).
	scrollProbability = 3
	// scrollRange is the range of a random scroll in pixels, centered on zero.
	scrollRange = 200
)

// simulateHumanBehavior moves the mouse and scrolls a little while the user reads the consent page.
func (s *ServiceImpl) simulateHumanBehavior(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "simulateHumanBehavior panic recovered: %v", r)
		}
	}()

	eval, err := s.page.Eval(`() => ({width: window.innerWidth, height: window.innerHeight})`)
	if err != nil {
		return
	}

	dims := eval.Value.Map()
	maxX := int(dims["width"].Num())
	maxY := int(dims["height"].Num())

	if maxX <= 0 || maxY <= 0 {
		return
	}

	for range mouseMovementsPerCheck {
		//nolint:gosec // Weak random is fine for simulating human behavior.
		x, y := rand.IntN(maxX), rand.IntN(maxY)

		s.page.Mouse.MustMoveTo(float64(x), float64(y))
	}

	//nolint:gosec // Weak random is fine for simulating human behavior.
	if rand.IntN(scrollProbability) == 0 {
		//nolint:gosec // Weak random is fine for simulating human behavior.
		delta := float64(rand.IntN(scrollRange) - scrollRange/2)
		s.page.Mouse.MustScroll(0, delta)
	}
}
