package libjitsi

import "math"

// logRatio is the relative speech activity of a challenger against an
// incumbent at one time-scale: positive when the challenger's score
// dominates the incumbent's at that scale.
func logRatio(challengerScore, incumbentScore float64) float64 {
	return math.Log(challengerScore / incumbentScore)
}

// Binomial computes the binomial coefficient C(n, r), the number of ways of
// picking r unordered outcomes from n possibilities. Callers guarantee
// 0 <= r <= n <= 50, which keeps every intermediate product within int64
// range. The symmetric identity C(n,r) = C(n,n-r) is used to iterate over
// the smaller of r and n-r, and multiply-then-divide in lockstep keeps every
// intermediate value an exact integer.
func Binomial(n, r int) int64 {
	m := n - r
	if r < m {
		r = m
	}

	var t int64 = 1
	for i, j := n, 1; i > r; i, j = i-1, j+1 {
		t = t * int64(i) / int64(j)
	}
	return t
}

// speechActivityScore is the binomial log-likelihood score from Volfin &
// Cohen: the log-probability of observing vL "active" slots out of nR under
// a symmetric binomial model, penalized by an exponential prior with rate
// lambda. The result is clamped to minSpeechActivityScore since it is used
// both as a log argument and as a denominator elsewhere.
func speechActivityScore(vL, nR int, p, lambda float64) float64 {
	score := math.Log(float64(Binomial(nR, vL))) +
		float64(vL)*math.Log(p) +
		float64(nR-vL)*math.Log(1-p) -
		math.Log(lambda) +
		lambda*float64(vL)

	if score < minSpeechActivityScore {
		score = minSpeechActivityScore
	}
	return score
}

// computeBigs recomputes a coarser-grained window: littles is partitioned
// into len(bigs) equal-length blocks, each block's count of entries strictly
// greater than threshold is written into the matching bigs slot, and the
// function reports whether any slot actually changed.
func computeBigs(littles, bigs []byte, threshold byte) bool {
	bigLen := len(bigs)
	littleLenPerBig := len(littles) / bigLen
	changed := false

	for b, l := 0, 0; b < bigLen; b++ {
		var sum byte
		for lEnd := l + littleLenPerBig; l < lEnd; l++ {
			if littles[l] > threshold {
				sum++
			}
		}
		if bigs[b] != sum {
			bigs[b] = sum
			changed = true
		}
	}
	return changed
}
