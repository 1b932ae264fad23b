package ml

import "sort"

// node is one node of a regression tree, stored in a flat slice so the whole
// tree serializes naturally. Leaf nodes have Left == -1.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// regressionTree is a depth-limited CART tree fitted on squared error.
type regressionTree struct {
	Nodes []node `json:"nodes"`
}

func (t *regressionTree) predict(features []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// fitTree grows a tree on the rows indexed by idx against the residuals.
func fitTree(x [][]float64, residuals []float64, idx []int, maxDepth int) *regressionTree {
	t := &regressionTree{}
	t.grow(x, residuals, idx, maxDepth)
	return t
}

func (t *regressionTree) grow(x [][]float64, res []float64, idx []int, depth int) int {
	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, node{Left: -1, Right: -1, Value: mean(res, idx)})

	if depth <= 0 || len(idx) < 2 {
		return self
	}

	feature, threshold, ok := bestSplit(x, res, idx)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return self
	}

	t.Nodes[self].Feature = feature
	t.Nodes[self].Threshold = threshold
	l := t.grow(x, res, left, depth-1)
	r := t.grow(x, res, right, depth-1)
	t.Nodes[self].Left = l
	t.Nodes[self].Right = r
	return self
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two children. Thresholds are midpoints between
// consecutive distinct feature values.
func bestSplit(x [][]float64, res []float64, idx []int) (feature int, threshold float64, ok bool) {
	nFeatures := len(x[idx[0]])
	best := parentSSE(res, idx)
	const minGain = 1e-12

	order := make([]int, len(idx))
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var leftSum, leftSq float64
		rightSum, rightSq := sums(res, order)
		n := float64(len(order))
		leftN := 0.0

		for i := 0; i < len(order)-1; i++ {
			r := res[order[i]]
			leftSum += r
			leftSq += r * r
			rightSum -= r
			rightSq -= r * r
			leftN++

			v, next := x[order[i]][f], x[order[i+1]][f]
			if v == next {
				continue
			}
			sse := (leftSq - leftSum*leftSum/leftN) + (rightSq - rightSum*rightSum/(n-leftN))
			if sse < best-minGain {
				best = sse
				feature = f
				threshold = v + (next-v)/2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func parentSSE(res []float64, idx []int) float64 {
	sum, sq := sums(res, idx)
	n := float64(len(idx))
	return sq - sum*sum/n
}

func sums(res []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		r := res[i]
		sum += r
		sq += r * r
	}
	return sum, sq
}

func mean(res []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum, _ := sums(res, idx)
	return sum / float64(len(idx))
}
