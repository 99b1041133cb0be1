package training

import (
	"sort"

	"github.com/mindgrove/cortex/internal/domain/artifact"
)

// Tree growth limits, mirroring the reference model configuration.
const (
	maxTreeDepth    = 10
	minSamplesSplit = 2
)

// growTree fits a gini-impurity decision tree on standardized features.
// X is row-major; y holds class indices in [0, nClasses).
func growTree(x [][]float64, y []int, nClasses int) *artifact.Classifier {
	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}
	root := buildNode(x, y, indices, nClasses, 0)
	return &artifact.Classifier{Root: root, NClasses: nClasses, Depth: maxTreeDepth}
}

func buildNode(x [][]float64, y []int, indices []int, nClasses, depth int) *artifact.TreeNode {
	counts := classCounts(y, indices, nClasses)
	majority, purity := majorityClass(counts, len(indices))

	if depth >= maxTreeDepth || len(indices) < minSamplesSplit || purity == 1.0 {
		return &artifact.TreeNode{Leaf: true, Class: majority, Purity: purity}
	}

	feature, threshold, ok := bestSplit(x, y, indices, nClasses)
	if !ok {
		return &artifact.TreeNode{Leaf: true, Class: majority, Purity: purity}
	}

	var left, right []int
	for _, idx := range indices {
		if x[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &artifact.TreeNode{Leaf: true, Class: majority, Purity: purity}
	}

	return &artifact.TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildNode(x, y, left, nClasses, depth+1),
		Right:     buildNode(x, y, right, nClasses, depth+1),
	}
}

// bestSplit scans every feature with a single sorted pass, maintaining
// running class counts so each candidate threshold is evaluated in O(1).
func bestSplit(x [][]float64, y []int, indices []int, nClasses int) (int, float64, bool) {
	total := len(indices)
	if total < 2 {
		return 0, 0, false
	}

	parent := classCounts(y, indices, nClasses)
	bestGini := giniImpurity(parent, total)
	bestFeature, bestThreshold := -1, 0.0

	nFeatures := len(x[indices[0]])
	sorted := make([]int, total)

	for f := 0; f < nFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool { return x[sorted[i]][f] < x[sorted[j]][f] })

		leftCounts := make([]int, nClasses)
		rightCounts := make([]int, nClasses)
		copy(rightCounts, parent)

		for i := 0; i < total-1; i++ {
			cls := y[sorted[i]]
			leftCounts[cls]++
			rightCounts[cls]--

			cur, next := x[sorted[i]][f], x[sorted[i+1]][f]
			if cur == next {
				continue
			}

			nLeft, nRight := i+1, total-i-1
			weighted := (float64(nLeft)*giniImpurity(leftCounts, nLeft) +
				float64(nRight)*giniImpurity(rightCounts, nRight)) / float64(total)
			if weighted < bestGini {
				bestGini = weighted
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func classCounts(y []int, indices []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, idx := range indices {
		counts[y[idx]]++
	}
	return counts
}

func majorityClass(counts []int, total int) (int, float64) {
	best, bestCount := 0, -1
	for cls, count := range counts {
		if count > bestCount {
			best, bestCount = cls, count
		}
	}
	if total == 0 {
		return best, 0
	}
	return best, float64(bestCount) / float64(total)
}

func giniImpurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		impurity -= p * p
	}
	return impurity
}
