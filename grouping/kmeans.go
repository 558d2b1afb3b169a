package grouping

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/gobonemat/types"
)

/*
Kmeans clusters materials on the feature pair (element count, modulus). The
group modulus is the mean modulus of the cluster members, so it does not
depend on the element counts used to place the clusters.
*/
type Kmeans struct {
	NumClusters   int
	Seed          int64
	MaxIterations int
	NumInit       int // Restarts, the lowest inertia wins
}

func (km *Kmeans) Method() types.GroupingMethod { return types.GM_KmeansClustering }

func (km *Kmeans) Parameter() float64 { return float64(km.NumClusters) }

func (km *Kmeans) Partition(mt *types.MaterialTable) (p Partition, err error) {
	if km.NumClusters < 1 {
		err = fmt.Errorf("number of clusters must be positive, have %d", km.NumClusters)
		return
	}
	if mt.Len() == 0 {
		err = fmt.Errorf("no materials to cluster")
		return
	}
	var (
		N        = mt.Len()
		X        = mat.NewDense(N, 2, nil)
		K        = km.NumClusters
		bestCost = math.Inf(1)
		best     []int
	)
	for i := range mt.Records {
		X.Set(i, 0, float64(mt.Records[i].ElementCount()))
		X.Set(i, 1, mt.Records[i].E_z)
	}
	if distinct := distinctRows(X); K > distinct {
		K = distinct
	}
	rng := rand.New(rand.NewPCG(uint64(km.Seed), 0x5bd1e995))
	for n := 0; n < max(km.NumInit, 1); n++ {
		C := km.seed(X, K, rng)
		labels, cost := km.lloyd(X, C)
		if cost < bestCost {
			bestCost, best = cost, labels
		}
	}
	p.Assign = best
	p.Centers = make([]float64, K)
	members := make([][]float64, K)
	for i, l := range best {
		members[l] = append(members[l], mt.Records[i].E_z)
	}
	for k := range p.Centers {
		if len(members[k]) != 0 {
			p.Centers[k] = stat.Mean(members[k], nil)
		}
	}
	return
}

func distinctRows(X *mat.Dense) int {
	N, _ := X.Dims()
	seen := make(map[[2]float64]bool, N)
	for i := 0; i < N; i++ {
		seen[[2]float64{X.At(i, 0), X.At(i, 1)}] = true
	}
	return len(seen)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// seed places K centroids with the k-means++ rule
func (km *Kmeans) seed(X *mat.Dense, K int, rng *rand.Rand) (C *mat.Dense) {
	var (
		N, dim = X.Dims()
		D2     = make([]float64, N)
	)
	C = mat.NewDense(K, dim, nil)
	C.SetRow(0, X.RawRowView(rng.IntN(N)))
	for i := range D2 {
		D2[i] = sqDist(X.RawRowView(i), C.RawRowView(0))
	}
	for k := 1; k < K; k++ {
		var (
			total = floats.Sum(D2)
			pick  = N - 1
		)
		target := rng.Float64() * total
		for i, d := range D2 {
			if target < d {
				pick = i
				break
			}
			target -= d
		}
		// Rounding can walk off the end onto a point that is already a centroid
		for D2[pick] == 0 && pick > 0 {
			pick--
		}
		C.SetRow(k, X.RawRowView(pick))
		for i := range D2 {
			D2[i] = math.Min(D2[i], sqDist(X.RawRowView(i), C.RawRowView(k)))
		}
	}
	return
}

func nearestRow(C *mat.Dense, x []float64) (ind int, d2 float64) {
	K, _ := C.Dims()
	d2 = math.Inf(1)
	for k := 0; k < K; k++ {
		if d := sqDist(x, C.RawRowView(k)); d < d2 {
			ind, d2 = k, d
		}
	}
	return
}

// lloyd iterates assignment and centroid update until the labels settle
func (km *Kmeans) lloyd(X, C *mat.Dense) (labels []int, cost float64) {
	var (
		N, dim = X.Dims()
		K, _   = C.Dims()
		dist   = make([]float64, N)
		counts = make([]int, K)
		sum    = mat.NewDense(K, dim, nil)
	)
	labels = make([]int, N)
	for i := range labels {
		labels[i] = -1
	}
	for iter := 0; iter < max(km.MaxIterations, 1); iter++ {
		changed := false
		for i := 0; i < N; i++ {
			l, d2 := nearestRow(C, X.RawRowView(i))
			if l != labels[i] {
				labels[i], changed = l, true
			}
			dist[i] = d2
		}
		if !changed {
			break
		}
		sum.Zero()
		for k := range counts {
			counts[k] = 0
		}
		for i, l := range labels {
			floats.Add(sum.RawRowView(l), X.RawRowView(i))
			counts[l]++
		}
		for k := 0; k < K; k++ {
			if counts[k] == 0 {
				// Move the empty centroid onto the point worst served by its own
				far := floats.MaxIdx(dist)
				C.SetRow(k, X.RawRowView(far))
				dist[far] = 0
				continue
			}
			floats.ScaleTo(C.RawRowView(k), 1/float64(counts[k]), sum.RawRowView(k))
		}
	}
	for i := 0; i < N; i++ {
		labels[i], dist[i] = nearestRow(C, X.RawRowView(i))
	}
	cost = floats.Sum(dist)
	return
}
